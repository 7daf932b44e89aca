package entity

import "time"

// ClickEvent is a single recorded visit of an affiliate link. It is never updated.
type ClickEvent struct {
	ID        int64
	LinkID    int64
	Referrer  string // Referrer is empty when the visitor came directly.
	UserAgent string
	ClickedAt time.Time
}

// ClickStat is a click event enriched with the current name and slug of its link.
type ClickStat struct {
	ClickEvent
	LinkName string
	LinkSlug string
}

// ClickFilter narrows the events returned by the analytics queries.
type ClickFilter struct {
	LinkID   *int64
	Referrer string
	Start    *time.Time
	End      *time.Time
}

// DateCount is the number of clicks that happened on a single UTC day.
type DateCount struct {
	Date  string // Date is formatted as YYYY-MM-DD.
	Count int64
}

// ReferrerCount is the number of clicks attributed to one referrer.
type ReferrerCount struct {
	Referrer string
	Count    int64
}

// DirectReferrer labels clicks that carried no referrer.
const DirectReferrer = "Direct"

// ClickSummary is the dashboard overview of all links.
type ClickSummary struct {
	TotalLinks    int64
	ActiveLinks   int64
	TotalClicks   int64
	ClicksLast24h int64
	TopLinks      []AffiliateLink
}
