package auth

import (
	"context"
	"fmt"

	"github.com/workos/workos-go/v6/pkg/usermanagement"
)

// WorkOSDirectory resolves an identity's verified email through the WorkOS
// user management API. It backs account creation when the access token
// carries no verified email claim.
type WorkOSDirectory struct {
	client *usermanagement.Client
}

func NewWorkOSDirectory(apiKey string) *WorkOSDirectory {
	return &WorkOSDirectory{client: usermanagement.NewClient(apiKey)}
}

func (d *WorkOSDirectory) VerifiedEmail(ctx context.Context, identityID string) (string, error) {
	user, err := d.client.GetUser(ctx, usermanagement.GetUserOpts{User: identityID})
	if err != nil {
		return "", fmt.Errorf("failed to get user %s: %w", identityID, err)
	}
	if !user.EmailVerified {
		return "", nil
	}
	return user.Email, nil
}
