package config

import "time"

const (
	KeyServerPort        = "server.port"
	KeyServerTLSEnabled  = "server.tls.enabled"
	KeyServerTLSCertFile = "server.tls.cert_file"
	KeyServerTLSKeyFile  = "server.tls.key_file"

	KeyGitHubToken     = "github.token"
	KeyGitHubUsername  = "github.username"
	KeyGitHubRepo      = "github.repo"
	KeyGitHubDirectory = "github.directory"
	KeyGitHubBranch    = "github.branch"

	KeySuperToken = "security.super_token"
	KeyFailLimit  = "security.fail_limit"
	KeyBanTime    = "security.ban_time"
	KeyCacheTime  = "security.cache_time"

	KeyDBKind = "db.kind"
	KeyDBFile = "db.file"

	DefaultServerPort = 9000
	DefaultFailLimit  = 5
	DefaultBanTime    = 10 * time.Minute
)
