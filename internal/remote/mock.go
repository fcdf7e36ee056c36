package remote

import (
	"context"

	"github.com/dcraven/sift/internal/domain"
)

// MockClient is a configurable remote client for testing and offline use.
// Set the error fields to control what each method returns.
type MockClient struct {
	SendStatusError error
	SendViewedError error

	// Call tracking for assertions
	StatusCalls []StatusCall
	ViewedCalls []ViewedCall
}

type StatusCall struct {
	EntityType domain.EntityType
	EntityID   string
	Liked      bool
	Disliked   bool
}

type ViewedCall struct {
	EntityType domain.EntityType
	EntityID   string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) SendStatus(ctx context.Context, entityType domain.EntityType, entityID string, liked, disliked bool) error {
	c.StatusCalls = append(c.StatusCalls, StatusCall{
		EntityType: entityType,
		EntityID:   entityID,
		Liked:      liked,
		Disliked:   disliked,
	})
	return c.SendStatusError
}

func (c *MockClient) SendViewed(ctx context.Context, entityType domain.EntityType, entityID string) error {
	c.ViewedCalls = append(c.ViewedCalls, ViewedCall{EntityType: entityType, EntityID: entityID})
	return c.SendViewedError
}

// Reset clears all recorded calls and errors.
func (c *MockClient) Reset() {
	c.SendStatusError = nil
	c.SendViewedError = nil
	c.StatusCalls = nil
	c.ViewedCalls = nil
}
