// Package fixture provides the sample catalog shared by package tests and
// examples.
package fixture

import (
	"context"
	_ "embed"

	"github.com/oakwood-commons/exprsense/internal/index"
	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
)

//go:embed sample.yaml
var sampleYAML []byte

// SampleYAML returns the raw sample catalog.
func SampleYAML() []byte { return sampleYAML }

// Catalog parses the sample catalog. It panics on a parse error since the
// data is embedded.
func Catalog() *catalog.Catalog {
	c, err := catalog.Parse(sampleYAML, catalog.FormatYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Tree builds and freezes the sample index with default options.
func Tree() *symbol.Tree {
	t, _, err := index.Build(context.Background(), Catalog().Types, index.Options{})
	if err != nil {
		panic(err)
	}
	return t
}
