package weatherfx

import "testing"

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
}

type MockModule2 struct {
	installed bool
}

func (m *MockModule2) Install(app *App, commands *Commands) {
	m.installed = true
}

func TestAppBuilder_Empty(t *testing.T) {
	app := NewAppBuilder().Build()

	if len(app.stages) != len(defaultStages) {
		t.Errorf("Expected %d stages, got %d", len(defaultStages), len(app.stages))
	}
	if app.Frame() != 0 {
		t.Errorf("Expected frame 0, got %d", app.Frame())
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule2{}

	NewAppBuilder().
		UseModule(module1).
		UseModule(module2).
		Build()

	if !module1.installed {
		t.Errorf("Expected module1 to be installed")
	}
	if !module2.installed {
		t.Errorf("Expected module2 to be installed")
	}
}

func TestAppBuilder_WeatherStack(t *testing.T) {
	app := NewAppBuilder().
		UseModule(
			LoggingModule{Prefix: "test"},
			TimeModule{},
			AssetServerModule{},
			SceneModule{},
			WeatherModule{},
		).
		Build()

	if _, ok := Resource[Weather](app); !ok {
		t.Fatalf("Expected Weather resource")
	}
	if _, ok := Resource[ControlSurface](app); !ok {
		t.Fatalf("Expected ControlSurface resource")
	}
	if _, ok := app.Logger().(*DefaultLogger); !ok {
		t.Errorf("Expected DefaultLogger, got %T", app.Logger())
	}
}
