package weatherfx

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App runs registered systems stage by stage, once per displayed frame.
// All systems of one frame run on the same goroutine and finish before the
// next frame is scheduled.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	teardown  []systemFn
	resources map[reflect.Type]any

	frame         uint64
	stopRequested bool
	tornDown      bool
}

// NewApp returns an app with the default stage list and no modules.
func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules in order.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Frame returns the number of completed frames.
func (app *App) Frame() uint64 {
	return app.frame
}

// Step runs one frame: every stage in order, every system of a stage in
// registration order. It is the onFrame callback of the render loop.
// After Shutdown it does nothing.
func (app *App) Step() {
	if app.tornDown {
		return
	}
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

// Run drives frames from source until the context is cancelled, the source
// closes, or a system calls Commands.Stop. Scheduling always stops before
// teardown systems release resources.
func (app *App) Run(ctx context.Context, source FrameSource) error {
	defer app.Shutdown()

	for {
		if err := source.Next(ctx); err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrFrameSourceClosed) {
				return nil
			}
			return fmt.Errorf("waiting for frame %d: %w", app.frame, err)
		}

		app.Step()

		if app.stopRequested {
			app.Logger().Infof("Stop requested after frame %d", app.frame)
			return nil
		}
	}
}

// Shutdown runs teardown systems once. Later calls are no-ops.
func (app *App) Shutdown() {
	if app.tornDown {
		return
	}
	app.tornDown = true
	for _, system := range app.teardown {
		app.callSystem(system)
	}
}

// Start runs the frame loop on its own goroutine and returns the task handle
// that owns it.
func (app *App) Start(ctx context.Context, source FrameSource) *FrameTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &FrameTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(task.done)
		task.err = app.Run(ctx, source)
	}()
	return task
}

// FrameTask is the cancellable handle of a running frame loop.
type FrameTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Cancel stops scheduling and blocks until the loop has exited and teardown
// finished. No advance runs after Cancel returns.
func (t *FrameTask) Cancel() error {
	t.cancel()
	<-t.done
	return t.err
}

// Wait blocks until the loop exits on its own.
func (t *FrameTask) Wait() error {
	<-t.done
	return t.err
}

// Done is closed once the loop has exited and teardown finished.
func (t *FrameTask) Done() <-chan struct{} {
	return t.done
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType == nil || resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %v must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T if one was installed.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: argument %d is not a pointer", systemName(systemValue), i))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				systemName(systemValue),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

func systemName(v reflect.Value) string {
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return "<unknown>"
}
