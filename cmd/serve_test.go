package cmd

import (
	"errors"
	"reflect"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"

	"github.com/harmonix-bot/harmonix-web/config"
	"github.com/harmonix-bot/harmonix-web/server"
)

func BenchmarkServe(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TestCmdServe(&testing.T{})
	}
}

func TestCmdServe(t *testing.T) {
	// monkey patching
	defer gomonkey.NewPatches().
		ApplyFunc(config.Parse, func() (*config.Config, error) {
			return config.Default(), nil
		}).
		ApplyMethod(reflect.TypeOf(&server.Server{}), "Run", func(_ *server.Server) error {
			return nil
		}).
		Reset()

	// testing
	assert.Nil(t, testExecute(cmdServe(), "-a", ":9090"))
}

func TestCmdServeConfigFailure(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(config.Parse, func() (*config.Config, error) {
		return nil, errors.New("ko")
	}).Reset()

	// testing
	assert.EqualError(t, testExecute(cmdServe()), "ko")
}
