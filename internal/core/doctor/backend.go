package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/consolestate/internal/backend"
	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/internal/core/version"
)

// Backend is the subset of the backend client the check calls.
type Backend interface {
	FetchSettings(ctx context.Context) (settings.Public, error)
	FetchVersionInfo(ctx context.Context, force bool) (version.Info, error)
}

// BackendCheck verifies that both cached endpoints answer.
type BackendCheck struct {
	client   Backend
	hasToken bool
}

// NewBackendCheck creates a new backend check. hasToken reports whether an
// admin token is configured; without one the update check is skipped.
func NewBackendCheck(client Backend, hasToken bool) *BackendCheck {
	return &BackendCheck{client: client, hasToken: hasToken}
}

func (c *BackendCheck) Name() string {
	return "Backend"
}

func (c *BackendCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if p, err := c.client.FetchSettings(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "public settings",
			Status: StatusFail,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "public settings",
			Status: StatusPass,
			Detail: settings.Project(p).SiteName,
		})
	}

	if !c.hasToken {
		result.Items = append(result.Items, CheckItem{
			Label:  "update check",
			Status: StatusWarn,
			Detail: "no admin token configured",
		})
		return result
	}

	info, err := c.client.FetchVersionInfo(ctx, false)
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		result.Items = append(result.Items, CheckItem{
			Label:  "update check",
			Status: StatusFail,
			Detail: "admin token rejected",
		})
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "update check",
			Status: StatusFail,
			Detail: err.Error(),
		})
	case info.HasUpdate:
		result.Items = append(result.Items, CheckItem{
			Label:  "update check",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%s available (running %s)", info.LatestVersion, info.CurrentVersion),
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "update check",
			Status: StatusPass,
			Detail: info.CurrentVersion,
		})
	}

	return result
}
