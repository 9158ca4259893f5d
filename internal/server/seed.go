package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/newsroom/internal/logging"
	"github.com/dmitrijs2005/newsroom/internal/netx"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/config"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/validate"
)

// DefaultTopics are created by the seed command when missing.
var DefaultTopics = []models.Topic{
	{Slug: "coding", Description: "Code is love, code is life"},
	{Slug: "football", Description: "FOOTIE!"},
	{Slug: "cooking", Description: "Hey good looking, what you got cooking?"},
}

// newStack is a seam for tests.
var newStack = NewStack

type SeedOptions struct {
	// AvatarPath is an optional image uploaded as the admin avatar.
	AvatarPath string
	// PromptPassword is asked for the admin password when none is configured.
	PromptPassword func() (string, error)
	HTTPClient     *http.Client
}

// Seed migrates the database, provisions the admin account and creates the
// default topics.
func Seed(ctx context.Context, c *config.Config, opts SeedOptions) error {
	logger, err := logging.New(c.LogBackend, c.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Flush(logger) }()

	st, err := newStack(ctx, c)
	if err != nil {
		return err
	}
	defer st.DB.Close()

	password := c.AdminPassword
	if password == "" {
		if opts.PromptPassword == nil {
			return errors.New("admin password is not configured")
		}
		if password, err = opts.PromptPassword(); err != nil {
			return fmt.Errorf("error reading admin password: %w", err)
		}
	}

	if err := st.Accounts.ProvisionAdmin(ctx, c.AdminUsername, password); err != nil {
		return err
	}
	logger.Info(ctx, "admin account provisioned", "username", c.AdminUsername)

	if err := st.Topics.Seed(ctx, DefaultTopics); err != nil {
		return err
	}
	logger.Info(ctx, "topics seeded", "count", len(DefaultTopics))

	if opts.AvatarPath == "" {
		return nil
	}

	data, err := os.ReadFile(opts.AvatarPath)
	if err != nil {
		return fmt.Errorf("error reading avatar: %w", err)
	}

	up, err := st.Avatars.PresignUpload(ctx, c.AdminUsername)
	if err != nil {
		return err
	}
	if err := netx.UploadToPresignedURL(ctx, opts.HTTPClient, up.UploadURL, data); err != nil {
		return err
	}

	admin := auth.Identity{Username: c.AdminUsername, Role: auth.RoleAdmin}
	if _, err := st.Accounts.Update(ctx, c.AdminUsername, validate.UserPatchInput{AvatarURL: &up.AvatarURL}, admin); err != nil {
		return err
	}
	logger.Info(ctx, "admin avatar uploaded", "key", up.Key)

	return nil
}
