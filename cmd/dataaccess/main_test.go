/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dataaccess/query"
)

func TestParseWhere(t *testing.T) {
	tests := []struct {
		expr string
		want *query.Predicate
	}{
		{"title==groceries", query.Eq("title", "groceries")},
		{"pinned != true", query.Ne("pinned", "true")},
		{"createdAt<=2025-01-01", query.Le("createdAt", "2025-01-01")},
		{"createdAt>2025", query.Gt("createdAt", "2025")},
		{"title~=milk", query.Like("title", "milk")},
		{"title^=Re", query.Prefix("title", "Re")},
		{"body==a<b", query.Eq("body", "a<b")},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := parseWhere(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"title", "==x", ""} {
		_, err := parseWhere(bad)
		assert.Error(t, err, bad)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dataaccess.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"backend: sqlite\nsqlite:\n  path: "+filepath.Join(dir, "notes.db")+"\nlog:\n  level: error\n"), 0o600))

	exec := func(args ...string) (string, int) {
		var stdout, stderr bytes.Buffer
		code := run(ctx, append([]string{"-config", cfgPath}, args...), &stdout, &stderr)
		return strings.TrimSpace(stdout.String() + stderr.String()), code
	}

	id, code := exec("add", "-body", "two litres", "buy", "milk")
	require.Equal(t, 0, code, id)
	_, code = exec("add", "call", "mum")
	require.Equal(t, 0, code)

	out, code := exec("count")
	require.Equal(t, 0, code)
	assert.Equal(t, "2", out)

	out, code = exec("count", "-where", "title~=milk")
	require.Equal(t, 0, code)
	assert.Equal(t, "1", out)

	_, code = exec("pin", id)
	require.Equal(t, 0, code)
	out, code = exec("get", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"pinned": true`)
	assert.Contains(t, out, `"body": "two litres"`)

	out, code = exec("list", "-where", "pinned==false")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "call mum")
	assert.NotContains(t, out, "buy milk")

	_, code = exec("delete", id)
	require.Equal(t, 0, code)
	out, code = exec("get", id)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not found")

	out, code = exec("list", "-where", "colour==red")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "colour")

	out, code = exec("-version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "dataaccess version")
}
