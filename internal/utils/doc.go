// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory, the
// FlushingWriter used for terminal output, and accessors for values carried
// through cobra command contexts.
package utils
