package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringEnv(t *testing.T) {
	require.Equal(t, "fallback", StringEnv("RUNMATRIX_TEST_STRING", "fallback"))
	t.Setenv("RUNMATRIX_TEST_STRING", "value")
	require.Equal(t, "value", StringEnv("RUNMATRIX_TEST_STRING", "fallback"))
}

func TestIntEnv(t *testing.T) {
	require.Equal(t, 50, IntEnv("RUNMATRIX_TEST_INT", 50))
	t.Setenv("RUNMATRIX_TEST_INT", "8")
	require.Equal(t, 8, IntEnv("RUNMATRIX_TEST_INT", 50))
	t.Setenv("RUNMATRIX_TEST_INT", "not-a-number")
	require.Equal(t, 50, IntEnv("RUNMATRIX_TEST_INT", 50))
}

func TestBoolEnv(t *testing.T) {
	require.False(t, BoolEnv("RUNMATRIX_TEST_BOOL", false))
	t.Setenv("RUNMATRIX_TEST_BOOL", "true")
	require.True(t, BoolEnv("RUNMATRIX_TEST_BOOL", false))
	t.Setenv("RUNMATRIX_TEST_BOOL", "nope")
	require.False(t, BoolEnv("RUNMATRIX_TEST_BOOL", false))
}
