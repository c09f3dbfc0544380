package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{Leagues: []string{"E0"}, Seasons: []string{"2324"}}
}

func TestValidateRejectsS3EndpointWithoutCredentials(t *testing.T) {
	c := validConfig()
	c.S3Endpoint = "minio.local:9000"
	assert.Error(t, c.Validate())
}

func TestValidateRejectsEmptyLeagues(t *testing.T) {
	c := validConfig()
	c.Leagues = nil
	assert.Error(t, c.Validate())
}

func TestValidateAcceptsFullyConfiguredS3(t *testing.T) {
	c := validConfig()
	c.S3Endpoint = "minio.local:9000"
	c.S3AccessKey = "key"
	c.S3SecretKey = "secret"
	assert.NoError(t, c.Validate())
}

func TestS3ConfiguredRequiresAllThreeFields(t *testing.T) {
	c := validConfig()
	assert.False(t, c.S3Configured())
	c.S3Endpoint, c.S3AccessKey, c.S3SecretKey = "e", "a", "s"
	assert.True(t, c.S3Configured())
}

func TestIsDevelopmentReflectsAppEnv(t *testing.T) {
	c := validConfig()
	c.AppEnv = "development"
	assert.True(t, c.IsDevelopment())
	c.AppEnv = "production"
	assert.False(t, c.IsDevelopment())
}
