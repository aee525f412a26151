// Package policies provides concrete Policy implementations for the estimation engine.
//
// Each policy resolves equipment quantities for one family of building types (residential-like buildings,
// warehouses). Policies are designed to be composed via the estimation.Engine; Default returns an engine
// with every built-in policy registered.
package policies
