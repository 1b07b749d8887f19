// sample-conf writes the default gpstaild configuration as TOML, either to
// stdout or to a file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"gpstaild/internal/config"
	"gpstaild/pkg/file"
)

func main() {
	out := flag.String("out", "", "write the sample config to this path instead of stdout")
	flag.Parse()

	cfg := config.Default()

	raw, err := toml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal failed: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		fmt.Print(string(raw))
		return
	}

	if err := file.WriteTo(*out, string(raw)); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s failed: %v\n", *out, err)
		os.Exit(1)
	}
}
