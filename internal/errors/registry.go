package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E029)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside render context",
		Detail:   "Hooks can only be called from a component function while its render pass is running. A Ctx kept past the end of its pass cannot be used.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed between renders",
		Detail:   "Hooks are matched to stored state by call position. The same hooks must be called in the same order on every render of a component identity; never call hooks inside conditions or loops with a variable iteration count.",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "The stored hook state at this position holds a different value type than the hook call expects.",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Render loop detected",
		Detail:   "A render pass kept scheduling another pass. This usually means a state setter is called unconditionally during render or from an effect without dependencies.",
	},
	"E007": {
		Category: CategoryRuntime,
		Message:  "Lazy component failed to load",
		Detail:   "The loader of a lazy component returned an error. The placeholder stays rendered.",
	},
	"E009": {
		Category: CategoryRuntime,
		Message:  "Session closed",
		Detail:   "The session has been closed and cannot render again.",
	},

	// ============================================
	// Mount Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryMount,
		Message:  "Host tree construction failed",
		Detail:   "The host tree rejected an element, property or child while mounting.",
	},
	"E031": {
		Category: CategoryMount,
		Message:  "Unsupported child value",
		Detail:   "Children must be virtual nodes, strings, numbers, fmt.Stringers, or slices of those.",
	},
	"E032": {
		Category: CategoryMount,
		Message:  "Component requires a render session",
		Detail:   "Hook-aware components can only be mounted inside a render pass of a vango.Session.",
	},

	// ============================================
	// Export Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryExport,
		Message:  "Snapshot export failed",
		Detail:   "The rendered snapshot could not be written to its destination.",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be read or contains invalid values.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No vango-lite.json or vango-lite.yaml was found in the project directory.",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Unknown demo",
		Detail:   "The requested demo does not exist. Run 'vango-lite demos' for the list.",
	},

	"E161": {
		Category: CategoryCLI,
		Message:  "Element not found",
		Detail:   "No element in the rendered tree has the id given to --click.",
	},
}
