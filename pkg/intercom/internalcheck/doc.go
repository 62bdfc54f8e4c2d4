// Package internalcheck holds source-level policy tests for the intercom
// packages.
//
// The tests load the packages with golang.org/x/tools/go/packages and walk
// their syntax trees. They check that the tables keyed by variant.Tag list
// every tag, that failure translation happens only at the outermost
// crossing inside package hresult, and that library code logs instead of
// printing.
//
// # Internal Use Only
//
// This package has no exported API and should not be imported.
package internalcheck
