package entity

import "time"

// AffiliateLink represents a trackable outbound redirect.
type AffiliateLink struct {
	ID          int64     // ID is the unique identifier of the link in the database.
	Slug        string    // Slug is the public path segment that resolves to URL.
	URL         string    // URL is the destination the visitor is redirected to.
	Name        string    // Name is the display name shown on dashboards.
	Description string    // Description is optional free text.
	CategoryID  *int64    // CategoryID references the link category, nil when uncategorized.
	IsActive    bool      // IsActive controls whether the redirect resolves.
	ClickCount  int64     // ClickCount is the cached number of recorded clicks.
	CreatedBy   string    // CreatedBy is the external id of the admin who created the link.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was created.
	UpdatedAt   time.Time // UpdatedAt is the timestamp when the link was last updated.
}

// LinkUpdate holds the fields of a link that may be changed. Nil fields are left untouched.
type LinkUpdate struct {
	Slug          *string
	URL           *string
	Name          *string
	Description   *string
	CategoryID    *int64
	ClearCategory bool
	IsActive      *bool
}

// Apply copies the set fields of u onto link.
func (u LinkUpdate) Apply(link *AffiliateLink) {
	if u.Slug != nil {
		link.Slug = *u.Slug
	}
	if u.URL != nil {
		link.URL = *u.URL
	}
	if u.Name != nil {
		link.Name = *u.Name
	}
	if u.Description != nil {
		link.Description = *u.Description
	}
	if u.ClearCategory {
		link.CategoryID = nil
	} else if u.CategoryID != nil {
		id := *u.CategoryID
		link.CategoryID = &id
	}
	if u.IsActive != nil {
		link.IsActive = *u.IsActive
	}
}

// LinkCategory groups affiliate links for display.
type LinkCategory struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}
