package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg.Web)
	assert.Equal(t, DefaultListenPort, cfg.Web.ListenPort)
	assert.Equal(t, DefaultTemplateDir, cfg.Web.TemplateDir)
	assert.Equal(t, DefaultDataDir, cfg.Database.DataDir)
	assert.False(t, cfg.Web.SSL)
	assert.NoError(t, cfg.Web.Validate())
}

func TestWebConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     WebConfig
		wantErr bool
	}{
		{"default port", WebConfig{ListenPort: 5000}, false},
		{"lowest port", WebConfig{ListenPort: MinListenPort}, false},
		{"highest port", WebConfig{ListenPort: MaxListenPort}, false},
		{"privileged port", WebConfig{ListenPort: 80}, true},
		{"zero port", WebConfig{}, true},
		{"port too high", WebConfig{ListenPort: 70000}, true},
		{"ssl with files", WebConfig{ListenPort: 5443, SSL: true, CertFile: "c.pem", KeyFile: "k.pem"}, false},
		{"ssl without key", WebConfig{ListenPort: 5443, SSL: true, CertFile: "c.pem"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMissingCertIsSentinel(t *testing.T) {
	cfg := WebConfig{ListenPort: 5443, SSL: true}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingCert)
}

func TestProtocol(t *testing.T) {
	assert.Equal(t, "http", (&WebConfig{}).Protocol())
	assert.Equal(t, "https", (&WebConfig{SSL: true}).Protocol())
}
