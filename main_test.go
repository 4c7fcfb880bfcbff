//go:build !windows

package main_test

import (
	"os"
	"testing"

	main "corpustools.io/corpustools"
	"fortio.org/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"corpustools": main.Main,
	}))
}

func TestCorpustoolsCli(t *testing.T) {
	testscript.Run(t, testscript.Params{Dir: "./"})
}
