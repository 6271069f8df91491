package config

const (
	defaultProjectRoot     = "."
	defaultNamespace       = "learn"
	defaultImagesDir       = "public/images"
	defaultPagesDir        = "src/app"
	defaultSourceFile      = "page.tsx"
	defaultPublicURLPrefix = "/images"
	defaultAssetSuffix     = "-hero.jpg"
	defaultStateDir        = "~/.local/share/heropatch"
	defaultLogDir          = "~/.local/share/heropatch/logs"
	defaultFetchBaseURL    = "https://source.unsplash.com"
	defaultFetchDimensions = "1200x400"
	defaultMinCachedBytes  = 1000
	defaultPauseMillis     = 300
	defaultUserAgent       = "heropatch/dev"
	defaultProfile         = "hero"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultRetentionDays   = 30
	defaultJournalFile     = "journal.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Project: Project{
			Root:            defaultProjectRoot,
			Namespace:       defaultNamespace,
			ImagesDir:       defaultImagesDir,
			PagesDir:        defaultPagesDir,
			SourceFile:      defaultSourceFile,
			PublicURLPrefix: defaultPublicURLPrefix,
			AssetSuffix:     defaultAssetSuffix,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Fetch: Fetch{
			BaseURL:        defaultFetchBaseURL,
			Dimensions:     defaultFetchDimensions,
			MinCachedBytes: defaultMinCachedBytes,
			PauseMillis:    defaultPauseMillis,
			UserAgent:      defaultUserAgent,
		},
		Patch: Patch{
			Profile: defaultProfile,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
		Journal: Journal{
			Enabled: true,
		},
	}
}
