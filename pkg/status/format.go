package status

import (
	"fmt"
)

// FileFormatter defines how applied entries and progress are rendered
type FileFormatter interface {
	// FormatEntry formats one applied entry
	FormatEntry(r Result) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatEntry formats an applied entry with emojis
func (f *DefaultFileFormatter) FormatEntry(r Result) string {
	switch r.Outcome {
	case Planned:
		return fmt.Sprintf("👀 Would copy %s -> %s", r.Src, r.Dst)
	case Copied:
		return fmt.Sprintf("✨ Copied %s -> %s", r.Src, r.Dst)
	case Deleted:
		return fmt.Sprintf("🚚 Moved %s -> %s", r.Src, r.Dst)
	case ValidationFailed:
		return fmt.Sprintf("⚠️  Validation failed %s -> %s", r.Src, r.Dst)
	case DeleteGuardFailed:
		return fmt.Sprintf("🛡️  Kept %s, re-validation failed", r.Src)
	case CopyFailed:
		return fmt.Sprintf("❌ Failed %s -> %s", r.Src, r.Dst)
	case DeleteFailed:
		return fmt.Sprintf("🗑️  Could not remove %s", r.Src)
	default:
		return fmt.Sprintf("❓ %s -> %s", r.Src, r.Dst)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var percentage float64
	if total > 0 {
		percentage = min(float64(current)/float64(total)*100, 100)
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
