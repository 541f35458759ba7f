package config

import "time"

// Base application details
const AppName = "tidecore"
const ConfigDirName = "tidecore"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "tidecore.log"

// UI Layout
const StatusBarHeight = 1

// Editor
const DefaultTabWidth = 4
const DefaultScrollOff = 3
const SystemClipboard = true
const DefaultAutoSaveInterval = time.Minute

// Buffer and history
const DefaultMergeWindow = 750 * time.Millisecond // Single merge threshold for adjacent edits
const DefaultMaxMergeSize = 4096                  // Runes one merged undo action may cover
const DefaultHistoryLimit = 1000                  // Actions kept before the oldest groups are dropped
const DefaultInitialGap = 64                      // Free slots allocated for a fresh buffer

// Word index
const DefaultIndexDelay = 300 * time.Millisecond
