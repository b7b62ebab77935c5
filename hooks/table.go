package hooks

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/allegro/lifecycle-executor/paths"
	"github.com/allegro/lifecycle-executor/servicelog"
)

// TableConfig describes where hook templates of a service live, where their
// compiled scripts and logs should go and how hook output is forwarded.
type TableConfig struct {
	// ServiceGroup is the name of the service group the hooks belong to.
	ServiceGroup string
	// TemplatesDir is the directory holding hook templates. A missing
	// directory yields an empty table and is not an error.
	TemplatesDir string
	// HooksDir is the directory compiled hook scripts are written to.
	HooksDir string
	// LogsDir is the directory captured hook output logs are written to.
	LogsDir string
	// HookPermissions is the file mode applied to compiled scripts,
	// DefaultHookPermissions when zero.
	HookPermissions os.FileMode
	// Sink receives hook output lines, the operational log when nil.
	Sink servicelog.Sink
}

// Table holds zero or one hook instance per kind for a single service. A nil
// slot means the service does not provide a template for that kind.
type Table struct {
	FileUpdated *FileUpdatedHook
	HealthCheck *HealthCheckHook
	Init        *InitHook
	Install     *InstallHook
	Reload      *ReloadHook
	Reconfigure *ReconfigureHook
	Suitability *SuitabilityHook
	Run         *RunHook
	PostRun     *PostRunHook
	SmokeTest   *SmokeTestHook
	PostStop    *PostStopHook
}

// LoadTable loads every hook the configured template directory provides. Each
// kind loads independently - one malformed template never prevents the other
// hooks from loading.
func LoadTable(cfg TableConfig) Table {
	info, err := os.Stat(cfg.TemplatesDir)
	if err != nil || !info.IsDir() {
		log.WithField("service", cfg.ServiceGroup).
			Debugf("No hook templates directory at %s", cfg.TemplatesDir)
		return Table{}
	}

	table := Table{}
	if h, ok := loadHook(FileUpdatedFileName, cfg); ok {
		table.FileUpdated = &FileUpdatedHook{hook: *h}
	}
	if h, ok := loadHook(HealthCheckFileName, cfg); ok {
		table.HealthCheck = &HealthCheckHook{hook: *h}
	}
	if h, ok := loadHook(InitFileName, cfg); ok {
		table.Init = &InitHook{hook: *h}
	}
	if h, ok := loadHook(InstallFileName, cfg); ok {
		table.Install = &InstallHook{hook: *h}
	}
	if h, ok := loadHook(ReloadFileName, cfg); ok {
		table.Reload = &ReloadHook{hook: *h}
	}
	if h, ok := loadHook(ReconfigureFileName, cfg); ok {
		table.Reconfigure = &ReconfigureHook{hook: *h}
	}
	if h, ok := loadHook(SuitabilityFileName, cfg); ok {
		table.Suitability = &SuitabilityHook{hook: *h}
	}
	if h, ok := loadHook(RunFileName, cfg); ok {
		table.Run = &RunHook{hook: *h}
	}
	if h, ok := loadHook(PostRunFileName, cfg); ok {
		table.PostRun = &PostRunHook{hook: *h}
	}
	if h, ok := loadHook(SmokeTestFileName, cfg); ok {
		table.SmokeTest = &SmokeTestHook{hook: *h}
	}
	if h, ok := loadHook(PostStopFileName, cfg); ok {
		table.PostStop = &PostStopHook{hook: *h}
	}
	return table
}

// NewTableFromPackage loads the hook table of a service from the hook
// templates its package installed, compiling scripts and logs into the
// service directories of layout. This is the sole integration point between
// hooks and package installation concerns.
func NewTableFromPackage(layout paths.Layout, pkg Pkg, templatesDir string, sink servicelog.Sink) Table {
	return LoadTable(TableConfig{
		ServiceGroup: pkg.Name,
		TemplatesDir: templatesDir,
		HooksDir:     layout.SvcHooksPath(pkg.Name),
		LogsDir:      layout.SvcLogsPath(pkg.Name),
		Sink:         sink,
	})
}

// Compile renders and writes every present hook against ctx in a fixed kind
// order and reports whether any compiled script changed. A failing hook is
// logged and counted as unchanged, it never aborts compilation of the others.
func (t *Table) Compile(serviceGroup string, ctx interface{}) bool {
	changed := false
	for _, h := range t.ordered() {
		if compileOne(h, serviceGroup, ctx) {
			changed = true
		}
	}
	return changed
}

// ordered returns the present hook cores in the fixed compilation order.
func (t *Table) ordered() []*hook {
	var hooks []*hook
	if t.FileUpdated != nil {
		hooks = append(hooks, &t.FileUpdated.hook)
	}
	if t.HealthCheck != nil {
		hooks = append(hooks, &t.HealthCheck.hook)
	}
	if t.Init != nil {
		hooks = append(hooks, &t.Init.hook)
	}
	if t.Install != nil {
		hooks = append(hooks, &t.Install.hook)
	}
	if t.Reload != nil {
		hooks = append(hooks, &t.Reload.hook)
	}
	if t.Reconfigure != nil {
		hooks = append(hooks, &t.Reconfigure.hook)
	}
	if t.Suitability != nil {
		hooks = append(hooks, &t.Suitability.hook)
	}
	if t.Run != nil {
		hooks = append(hooks, &t.Run.hook)
	}
	if t.PostRun != nil {
		hooks = append(hooks, &t.PostRun.hook)
	}
	if t.SmokeTest != nil {
		hooks = append(hooks, &t.SmokeTest.hook)
	}
	if t.PostStop != nil {
		hooks = append(hooks, &t.PostStop.hook)
	}
	return hooks
}

func compileOne(h *hook, serviceGroup string, ctx interface{}) bool {
	changed, err := h.Compile(serviceGroup, ctx)
	if err != nil {
		h.logger(serviceGroup).WithError(err).Errorf("Failed to compile hook %s", h.fileName)
		return false
	}
	return changed
}
