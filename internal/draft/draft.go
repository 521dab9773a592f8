// Package draft holds the unsent working copy of a cookie being created or
// edited, plus a pending attachment and its rendered preview. It has no
// network access; validation happens only at payload construction.
package draft

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/model"
)

var (
	ErrNameRequired = errors.New("draft: name must not be empty")
)

// Draft keeps numeric fields as entered text; coercion is deferred to
// Payload so partial input never breaks editing.
type Draft struct {
	// ID is empty for create mode, the target cookie id for edit mode.
	ID string

	Name           string
	Description    string
	PriceInput     string
	InventoryInput string
	BakingStatus   model.BakingStatus

	// AttachmentPath is a pending local file, unsent until submit.
	AttachmentPath string

	// existingThumbURL backs the preview in edit mode when no new
	// attachment has been chosen.
	existingThumbURL string
}

// New seeds a create-mode draft with field defaults.
func New() *Draft {
	return &Draft{
		PriceInput:     "0",
		InventoryInput: "0",
		BakingStatus:   model.StatusDough,
	}
}

// FromCookie seeds an edit-mode draft from an existing entity.
func FromCookie(c model.Cookie) *Draft {
	d := &Draft{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		PriceInput:     strconv.FormatFloat(c.Price, 'f', -1, 64),
		InventoryInput: strconv.Itoa(c.Inventory),
		BakingStatus:   c.BakingStatus,
	}
	if d.BakingStatus == "" {
		d.BakingStatus = model.StatusDough
	}
	if c.Photo != nil {
		d.existingThumbURL = c.Photo.Thumbnail.URL
	}
	return d
}

// Editing reports whether the draft targets an existing cookie.
func (d *Draft) Editing() bool { return strings.TrimSpace(d.ID) != "" }

// SetBakingStatus selects exactly one status; picking one deselects the
// rest (single-select, not toggle). Invalid values are ignored.
func (d *Draft) SetBakingStatus(s model.BakingStatus) {
	if s.Valid() {
		d.BakingStatus = s
	}
}

// SetAttachment records a pending local file for upload.
func (d *Draft) SetAttachment(path string) {
	d.AttachmentPath = strings.TrimSpace(path)
}

// Preview returns what should be displayed for the photo slot right now:
// the freshly rendered data URL for a pending attachment, the existing
// thumbnail in edit mode, or nothing.
//
// Reading and encoding the file is the slow part; callers run RenderPreview
// off the interaction path (a tea.Cmd in the TUI) and cache the result.
func (d *Draft) Preview(rendered string) string {
	if strings.TrimSpace(rendered) != "" {
		return rendered
	}
	if d.AttachmentPath == "" {
		return d.existingThumbURL
	}
	return ""
}

// RenderPreview reads the pending attachment and derives a data URL usable
// directly as an image source. No attachment means no preview ("", nil).
func (d *Draft) RenderPreview() (string, error) {
	if d.AttachmentPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(d.AttachmentPath)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Payload coerces the draft into a submission record for the given owner.
// Name must be non-empty; price and inventory must parse as non-negative
// numbers. Violations reject the submission before any network call.
func (d *Draft) Payload(ownerID string) (api.Payload, error) {
	if strings.TrimSpace(d.Name) == "" {
		return api.Payload{}, ErrNameRequired
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(d.PriceInput), 64)
	if err != nil {
		return api.Payload{}, fmt.Errorf("draft: price %q is not a number", d.PriceInput)
	}
	if price < 0 {
		return api.Payload{}, fmt.Errorf("draft: price must not be negative")
	}
	inventory, err := strconv.Atoi(strings.TrimSpace(d.InventoryInput))
	if err != nil {
		return api.Payload{}, fmt.Errorf("draft: inventory %q is not an integer", d.InventoryInput)
	}
	if inventory < 0 {
		return api.Payload{}, fmt.Errorf("draft: inventory must not be negative")
	}
	status := d.BakingStatus
	if status == "" {
		status = model.StatusDough
	}
	return api.Payload{
		Name:           strings.TrimSpace(d.Name),
		Description:    d.Description,
		Price:          price,
		Inventory:      inventory,
		BakingStatus:   status,
		OwnerID:        ownerID,
		AttachmentPath: d.AttachmentPath,
	}, nil
}
