package server

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	s, closer, err := newStore("inmem", "")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Nil(t, closer)

	dir, err := ioutil.TempDir("", "autopilot-server")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	s, _, err = newStore("file", dir)
	require.NoError(t, err)
	require.NotNil(t, s)

	_, _, err = newStore("carrier-pigeon", "")
	require.Error(t, err)

	_, _, err = newStore("redis", "not a url")
	require.Error(t, err)
}
