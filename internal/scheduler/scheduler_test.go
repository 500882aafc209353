package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/service/digest"
)

type stubBuilder struct {
	d   digest.Digest
	err error
}

func (s stubBuilder) Build(ctx context.Context) (digest.Digest, error) {
	return s.d, s.err
}

type MockPoster struct {
	mock.Mock
}

func (m *MockPoster) PostText(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func sampleDigest() digest.Digest {
	from := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	return digest.Digest{
		From: from,
		To:   from.AddDate(0, 0, 7),
		ByOutlet: map[string][]digest.Entry{
			"Hilal": {{ItemName: "Milk", Barcode: "1", Quantity: "2", Expiry: from.AddDate(0, 0, 1)}},
		},
	}
}

func TestRunOnce_Posts(t *testing.T) {
	poster := new(MockPoster)
	poster.On("PostText", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Milk") && strings.Contains(text, "Hilal")
	})).Return(nil).Once()

	s, err := NewScheduler(config.DigestConfig{CronSchedule: "0 7 * * *", Timezone: "UTC"}, stubBuilder{d: sampleDigest()}, poster, nil)
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(context.Background()))
	poster.AssertExpectations(t)
}

func TestRunOnce_PostError(t *testing.T) {
	poster := new(MockPoster)
	poster.On("PostText", mock.Anything, mock.Anything).Return(errors.New("webhook returned 502"))

	s, err := NewScheduler(config.DigestConfig{Timezone: "UTC"}, stubBuilder{d: sampleDigest()}, poster, nil)
	require.NoError(t, err)

	assert.ErrorContains(t, s.RunOnce(context.Background()), "post digest")
	poster.AssertNumberOfCalls(t, "PostText", 1)
}

func TestRunOnce_NilPosterLogsOnly(t *testing.T) {
	s, err := NewScheduler(config.DigestConfig{Timezone: "UTC"}, stubBuilder{d: sampleDigest()}, nil, nil)
	require.NoError(t, err)
	assert.NoError(t, s.RunOnce(context.Background()))
}

func TestRunOnce_BuildError(t *testing.T) {
	poster := new(MockPoster)
	s, err := NewScheduler(config.DigestConfig{Timezone: "UTC"}, stubBuilder{err: errors.New("sheet down")}, poster, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, s.RunOnce(context.Background()), "sheet down")
	poster.AssertNotCalled(t, "PostText", mock.Anything, mock.Anything)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s, err := NewScheduler(config.DigestConfig{CronSchedule: "every day", Timezone: "UTC"}, stubBuilder{}, nil, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestStart_Disabled(t *testing.T) {
	s, err := NewScheduler(config.DigestConfig{CronSchedule: "off", Timezone: "UTC"}, stubBuilder{}, nil, nil)
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Start())
	s.Stop()
}

func TestNewScheduler_BadTimezone(t *testing.T) {
	_, err := NewScheduler(config.DigestConfig{Timezone: "Mars/Olympus"}, stubBuilder{}, nil, nil)
	assert.Error(t, err)
}
