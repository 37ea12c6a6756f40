package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewSetsLevelAndService(t *testing.T) {
	log := New("catalog-service", "debug")
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
	assert.Equal(t, "catalog-service", log.Data["service"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	log := New("auth-service", "loud")
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
}
