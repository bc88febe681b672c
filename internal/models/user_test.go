package models_test

import (
	"testing"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Email:     "alice@example.com",
		Name:      "Alice",
		Interests: pq.StringArray{"math", "go"},
	}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	parsedUUID, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Email: "bob@example.com", Name: "Bob"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&models.User{Role: models.RoleAdmin}).IsAdmin())
	assert.False(t, (&models.User{Role: models.RoleMember}).IsAdmin())
	assert.False(t, (&models.User{}).IsAdmin())
}

// TestTicketBeforeCreate verifies ticket IDs are generated the same way.
func TestTicketBeforeCreate(t *testing.T) {
	ticket := &models.SupportTicket{OwnerID: "user_A", Subject: "help"}

	err := ticket.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(ticket.ID)
	assert.NoError(t, parseErr)

	existing := &models.SupportTicket{ID: "fixed-id"}
	assert.NoError(t, existing.BeforeCreate(nil))
	assert.Equal(t, "fixed-id", existing.ID)
}
