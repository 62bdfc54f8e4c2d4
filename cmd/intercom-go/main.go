// Command intercom-go opens a registered component and runs the conformance
// probes against it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hsiuhsiu/intercom-go/internal/testlib"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	component := flag.String("component", "", "component to open (overrides the config file)")
	console := flag.Bool("console", false, "log through a zerolog console writer")
	flag.Parse()

	log.Printf("intercom-go version: %s", intercom.WrapperVersion())
	log.Printf("variant tag table: %s", intercom.TagTableVersion())
	log.Printf("registered components: %v", intercom.Components())

	cfg := intercom.DefaultConfig()
	cfg.Component = testlib.Name
	if *configPath != "" {
		loaded, err := intercom.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *component != "" {
		cfg.Component = *component
	}

	var opts []intercom.Option
	if *console {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Fatalf("log level: %v", err)
		}
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(logging.ZerologLevel(level)).With().Timestamp().Logger()
		opts = append(opts, intercom.WithLogger(logging.NewZerolog(zl)))
	}

	lib, err := intercom.Open(cfg, opts...)
	if err != nil {
		if errors.Is(err, intercom.ErrComponentNotFound) {
			fmt.Printf("component unavailable: %v\n", err)
			return
		}
		log.Fatalf("unexpected failure opening component: %v", err)
	}

	failed := 0
	if lib.Name() == testlib.Name {
		for _, r := range testlib.Conformance(lib) {
			if r.Err != nil {
				failed++
				fmt.Printf("FAIL %s: %v\n", r.Name, r.Err)
				continue
			}
			fmt.Printf("ok   %s\n", r.Name)
		}
	} else {
		for _, c := range lib.Classes() {
			fmt.Printf("%s %s\n", c.CLSID, c.Name)
		}
	}

	if cerr := lib.Close(); cerr != nil {
		log.Printf("close error: %v", cerr)
		failed++
	}
	if failed > 0 {
		os.Exit(1)
	}
}
