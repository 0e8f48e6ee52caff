// Package domain contains the core business entities of the localization
// service: source texts keyed by SID and their per-language translations.
// It is independent of any storage or delivery mechanism.
package domain
