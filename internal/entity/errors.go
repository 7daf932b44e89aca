// Package entity defines the entities and errors used in the application.
// It covers affiliate links and their click events, link categories, tracked
// YouTube channels with their cached videos, and the users allowed to manage them.
package entity

import "errors"

var (
	// ErrLinkNotFound is returned when an affiliate link cannot be found.
	ErrLinkNotFound = errors.New("link not found")
	// ErrSlugExists is returned when attempting to store a link with a slug that is already taken.
	ErrSlugExists = errors.New("slug exists")
	// ErrMaxRetriesExceeded is returned when no free slug could be generated.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating slug")

	// ErrInvalidSlug is returned when no usable slug can be derived from a name.
	ErrInvalidSlug = errors.New("slug cannot be derived")

	// ErrCategoryNotFound is returned when a link category cannot be found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when a category with the same slug already exists.
	ErrCategoryExists = errors.New("category exists")

	// ErrChannelNotFound is returned when a tracked channel cannot be found.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrChannelExists is returned when the external channel id is already tracked.
	ErrChannelExists = errors.New("channel exists")
	// ErrVideoNotFound is returned when no video with the given external id is stored.
	ErrVideoNotFound = errors.New("video not found")

	// ErrFeedStatus is returned when a feed responds with a non-success status code.
	ErrFeedStatus = errors.New("unexpected feed response status")

	// ErrUserNotFound is returned when no user matches the given external id.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned when the caller could not be identified.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
)
