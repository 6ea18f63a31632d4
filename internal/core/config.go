package core

import "time"

type PathConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetInputHistoryPath() string
}

type CompletionConfig interface {
	GetAPIKey() string
	GetModel() string
	GetBaseURL() string
	GetTimeout() time.Duration
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
