//go:build tools

// Package tools pins developer tooling in go.mod so `go run` resolves
// the same versions everywhere. The build tag keeps these imports out
// of every real build.
package tools

import (
	_ "github.com/golangci/golangci-lint/v2/cmd/golangci-lint"
	_ "github.com/securego/gosec/v2/cmd/gosec"
	_ "golang.org/x/tools/gopls"
	_ "golang.org/x/vuln/cmd/govulncheck"
)
