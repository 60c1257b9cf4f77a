package appinfo

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wuxler/regprune/pkg/errdefs"
)

func TestVersion_Short(t *testing.T) {
	v := Version{Version: "v1.2.0"}
	assert.Equal(t, "v1.2.0", v.Short())

	v.GitCommit = "0123456789abcdef"
	assert.Equal(t, "v1.2.0-01234567", v.Short())
}

func TestVersion_Write(t *testing.T) {
	v := GetVersion()

	out := &bytes.Buffer{}
	require.NoError(t, v.Write(out, "text", "regprune"))
	assert.Contains(t, out.String(), "Application : regprune\n")
	assert.Contains(t, out.String(), "Version     : dev\n")

	out.Reset()
	require.NoError(t, v.Write(out, "json", ""))
	var fromJSON Version
	require.NoError(t, json.Unmarshal(out.Bytes(), &fromJSON))
	assert.Equal(t, v, fromJSON)

	out.Reset()
	require.NoError(t, v.Write(out, "YAML", ""))
	var fromYAML Version
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &fromYAML))
	assert.Equal(t, v, fromYAML)

	assert.ErrorIs(t, v.Write(out, "xml", ""), errdefs.ErrInvalidParameter)
}
