package handler

import (
	"moodlink/internal/app/match"
	"moodlink/internal/app/relay"
	"moodlink/internal/app/storage"
	"moodlink/internal/app/store"
	"moodlink/internal/configs"
)

// AppDeps bundles the collaborators the HTTP handlers depend on.
type AppDeps struct {
	Hub     *relay.Hub
	Config  *configs.AppConfig
	Store   store.Store
	Matcher *match.Service

	// Storage is nil when no S3 configuration was provided; the avatar presign
	// endpoint reports storage-not-configured in that case.
	Storage storage.StorageService
}
