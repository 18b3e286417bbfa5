package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func viperFor(t *testing.T, cmd *cobra.Command) *viper.Viper {
	t.Helper()
	v := viper.New()
	require.NoError(t, initConfig(v, cmd, ""))
	return v
}
