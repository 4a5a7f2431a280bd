// Package model defines the data shared by the dashboard views: a stored
// Entry, the FormState edited by the item and add views, and the
// ValidationErrors reported against its fields.
package model
