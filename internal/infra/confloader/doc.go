// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports multiple
// sources using koanf as the underlying library.
//
// Features:
//
//   - Multiple Sources: YAML files, environment variables, flag maps
//   - Watch Support: notification on config file changes (fsnotify)
//   - Type Safety: Unmarshaling into typed structs via koanf tags
//   - Env Mapping: EMBERKV_SERVER_REDIS_READ_TIMEOUT resolves to
//     server.redis.read_timeout using the target struct's keys
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader
