package intercom

import (
	"strconv"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

var (
	Version = "v0.0.0-in-progress"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// TagTableVersion returns the revision of the variant tag table both sides
// of the boundary must agree on.
func TagTableVersion() string {
	return "tags/v" + strconv.Itoa(variant.TagVersion)
}
