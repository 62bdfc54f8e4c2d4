package intercom_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/logging"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

const component = "intercom_test"

var (
	iidCounter = guid.ForInterface(component, "ICounter")
	iidMissing = guid.ForInterface(component, "IMissing")
	destroyed  atomic.Int32
)

type counter struct{}

func (*counter) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: iidCounter, Name: "ICounter"}}
}

func (*counter) Destroy() { destroyed.Add(1) }

// tagReporter answers its late-bound Tag member with the tag of its argument.
type tagReporter struct {
	*invoke.MethodTable
}

func newTagReporter() *tagReporter {
	r := &tagReporter{MethodTable: invoke.NewMethodTable()}
	r.Add("Tag", 1, func(_ *hresult.Scope, args []variant.Variant) (variant.Variant, error) {
		return variant.Encode(uint16(args[0].VT))
	})
	return r
}

func (*tagReporter) Capabilities() []comobj.Capability {
	return []comobj.Capability{comobj.Dispatch}
}

func init() {
	intercom.MustRegister(intercom.Component{
		Name: component,
		Classes: []intercom.Class{
			{Name: "Counter", New: func() (comobj.Object, error) { return &counter{}, nil }},
			{Name: "TagReporter", New: func() (comobj.Object, error) { return newTagReporter(), nil }},
			{Name: "Broken", New: func() (comobj.Object, error) {
				return nil, hresult.New(hresult.EOutOfMemory, "no room")
			}},
		},
	})
}

func open(t *testing.T, leakCheck bool) *intercom.Library {
	t.Helper()
	cfg := intercom.DefaultConfig()
	cfg.Component = component
	cfg.LeakCheck = leakCheck
	lib, err := intercom.Open(cfg, intercom.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return lib
}

func TestOpenUnknownComponent(t *testing.T) {
	cfg := intercom.DefaultConfig()
	cfg.Component = "nope"
	lib, err := intercom.Open(cfg)
	assert.ErrorIs(t, err, intercom.ErrComponentNotFound)
	assert.Nil(t, lib)

	_, err = intercom.Open(intercom.DefaultConfig())
	assert.ErrorIs(t, err, intercom.ErrInvalidConfig)
}

func TestRegisterDuplicate(t *testing.T) {
	err := intercom.Register(intercom.Component{Name: component})
	assert.ErrorIs(t, err, intercom.ErrDuplicateComponent)
	assert.Contains(t, intercom.Components(), component)
}

func TestCreateInstance(t *testing.T) {
	lib := open(t, true)
	assert.Equal(t, component, lib.Name())
	require.Len(t, lib.Classes(), 3)

	h, err := lib.CreateByName(nil, "Counter", iidCounter)
	require.NoError(t, err)
	assert.Equal(t, iidCounter, h.IID())
	n, err := h.RefCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n)

	unk, err := lib.CreateInstance(nil, guid.ForClass(component, "Counter"), intercom.IIDUnknown)
	require.NoError(t, err)
	assert.False(t, unk.Same(h))

	_, err = h.Release()
	require.NoError(t, err)
	_, err = unk.Release()
	require.NoError(t, err)
	require.NoError(t, lib.Close())
}

func TestCreateInstanceFailures(t *testing.T) {
	lib := open(t, true)
	defer func() { require.NoError(t, lib.Close()) }()

	_, err := lib.CreateByName(nil, "Missing", intercom.IIDUnknown)
	var typed *hresult.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, hresult.ClassEClassNotAvailable, typed.Code)
	assert.Equal(t, hresult.NativeFailure, typed.Category)

	before := destroyed.Load()
	_, err = lib.CreateByName(nil, "Counter", iidMissing)
	assert.ErrorIs(t, err, hresult.ErrNoSuchCapability)
	assert.Equal(t, before+1, destroyed.Load(), "unwanted object must be destroyed")
	assert.Zero(t, lib.Arena().Live())

	_, err = lib.CreateByName(nil, "Broken", intercom.IIDUnknown)
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, hresult.EOutOfMemory, typed.Code)
	assert.Equal(t, "no room", typed.Message)
}

func TestCloseLeakCheck(t *testing.T) {
	lib := open(t, true)
	h, err := lib.CreateByName(nil, "Counter", iidCounter)
	require.NoError(t, err)

	err = lib.Close()
	assert.ErrorIs(t, err, intercom.ErrLeakedObjects)
	assert.ErrorIs(t, lib.Close(), intercom.ErrLibraryClosed)

	_, err = lib.CreateByName(nil, "Counter", iidCounter)
	assert.True(t, errors.Is(err, intercom.ErrLibraryClosed))

	// Objects outlive the library that created them.
	_, err = h.Release()
	require.NoError(t, err)
}

func TestCloseWithoutLeakCheck(t *testing.T) {
	lib := open(t, false)
	h, err := lib.CreateByName(nil, "Counter", iidCounter)
	require.NoError(t, err)

	require.NoError(t, lib.Close())
	_, err = h.Release()
	require.NoError(t, err)

	var nilLib *intercom.Library
	assert.NoError(t, nilLib.Close())
}

func TestVersions(t *testing.T) {
	assert.NotEmpty(t, intercom.WrapperVersion())
	assert.Equal(t, "tags/v1", intercom.TagTableVersion())
}

func TestCallByNameUsesConfiguredStrings(t *testing.T) {
	for _, tc := range []struct {
		encoding string
		want     variant.Tag
	}{
		{"bstr", variant.TagBSTR},
		{"cstring", variant.TagCString},
		{"shared", variant.TagShared},
	} {
		t.Run(tc.encoding, func(t *testing.T) {
			cfg := intercom.DefaultConfig()
			cfg.Component = component
			cfg.StringEncoding = tc.encoding
			lib, err := intercom.Open(cfg, intercom.WithLogger(logging.Discard()))
			require.NoError(t, err)
			defer func() { assert.NoError(t, lib.Close()) }()

			h, err := lib.CreateByName(nil, "TagReporter", comobj.IIDDispatch)
			require.NoError(t, err)
			defer func() { _, _ = h.Release() }()

			res, err := lib.CallByName(nil, h, "Tag", "text")
			require.NoError(t, err)
			got, err := res.Uint16()
			require.NoError(t, err)
			assert.Equal(t, tc.want, variant.Tag(got))

			res, err = invoke.CallByName(nil, h, "Tag", "text")
			require.NoError(t, err)
			got, err = res.Uint16()
			require.NoError(t, err)
			assert.Equal(t, variant.TagBSTR, variant.Tag(got))
		})
	}
}
