package app_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferdiebergado/hbnb/internal/app"
	"github.com/ferdiebergado/hbnb/internal/config"
	"github.com/ferdiebergado/hbnb/internal/model"
	"github.com/ferdiebergado/hbnb/internal/pkg/security"
	"github.com/ferdiebergado/hbnb/internal/storage"
)

func newProvider(t *testing.T) *app.Provider {
	t.Helper()

	engine := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"))
	if err := engine.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	return &app.Provider{
		Cfg:     config.Default(),
		Storage: engine,
		Hasher: &security.StubHasher{
			HashFunc: func(plain string) (string, error) { return "hashed:" + plain, nil },
			VerifyFunc: func(plain, hashed string) (bool, error) {
				return hashed == "hashed:"+plain, nil
			},
		},
	}
}

func execute(t *testing.T, p *app.Provider, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := app.Execute(context.Background(), p, args, &out)
	return out.String(), err
}

func TestExecute_SeedAndAll(t *testing.T) {
	t.Parallel()

	p := newProvider(t)

	out, err := execute(t, p, "seed")
	if err != nil {
		t.Fatalf("seed = %v", err)
	}
	if got := strings.Count(out, "\n"); got != 6 {
		t.Errorf("seed printed %d keys, want: %d\n%s", got, 6, out)
	}

	out, err = execute(t, p, "all")
	if err != nil {
		t.Fatalf("all = %v", err)
	}
	for _, class := range model.Classes() {
		if !strings.Contains(out, "["+class+"]") {
			t.Errorf("all output is missing %s:\n%s", class, out)
		}
	}

	users, err := p.Storage.All(context.Background(), model.ClassUser)
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range users {
		if got, want := u.(*model.User).Password, "hashed:guipwd"; got != want {
			t.Errorf("user.Password = %q, want: %q", got, want)
		}
	}
}

func TestExecute_Count(t *testing.T) {
	t.Parallel()

	p := newProvider(t)
	if _, err := execute(t, p, "seed"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"count"}, "6\n"},
		{[]string{"count", "City"}, "1\n"},
	}
	for _, tc := range tests {
		out, err := execute(t, p, tc.args...)
		if err != nil {
			t.Fatalf("%v = %v", tc.args, err)
		}
		if out != tc.want {
			t.Errorf("%v = %q, want: %q", tc.args, out, tc.want)
		}
	}
}

func TestExecute_ShowAndDestroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newProvider(t)
	amenity := model.NewAmenity("Oven")
	if err := model.Save(ctx, p.Storage, amenity); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, p, "show", "Amenity", amenity.ID)
	if err != nil {
		t.Fatalf("show = %v", err)
	}
	if want := fmt.Sprintf("[Amenity] (%s)", amenity.ID); !strings.HasPrefix(out, want) {
		t.Errorf("show = %q, want prefix: %q", out, want)
	}

	if _, err := execute(t, p, "destroy", "Amenity", amenity.ID); err != nil {
		t.Fatalf("destroy = %v", err)
	}

	_, err = execute(t, p, "show", "Amenity", amenity.ID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("show after destroy = %v, want: %v", err, storage.ErrNotFound)
	}
}

func TestExecute_Verify(t *testing.T) {
	t.Parallel()

	p := newProvider(t)
	if _, err := execute(t, p, "seed"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, p, "verify", "gui@hbtn.io", "guipwd")
	if err != nil {
		t.Fatalf("verify = %v", err)
	}
	if !strings.HasPrefix(out, model.ClassUser+".") {
		t.Errorf("verify = %q, want a User key", out)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"wrong password", []string{"verify", "gui@hbtn.io", "nope"}, app.ErrInvalidUser},
		{"unknown email", []string{"verify", "who@hbtn.io", "guipwd"}, app.ErrInvalidUser},
		{"missing email", []string{"verify"}, app.ErrMissingArg},
		{"missing password", []string{"verify", "gui@hbtn.io"}, app.ErrMissingArg},
	}
	for _, tc := range tests {
		if _, err := execute(t, p, tc.args...); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: app.Execute(%v) = %v, want: %v", tc.name, tc.args, err, tc.wantErr)
		}
	}
}

func TestExecute_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no command", nil, app.ErrMissingArg},
		{"unknown command", []string{"create"}, app.ErrUnknownCommand},
		{"show without class", []string{"show"}, app.ErrMissingArg},
		{"show without id", []string{"show", "State"}, app.ErrMissingArg},
		{"show unknown class", []string{"show", "MyModel", "1"}, model.ErrUnknownClass},
		{"all unknown class", []string{"all", "MyModel"}, model.ErrUnknownClass},
		{"destroy missing id", []string{"destroy", "State", "nope"}, storage.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, newProvider(t), tc.args...)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("app.Execute(%v) = %v, want: %v", tc.args, err, tc.wantErr)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.json")
	dataFile := filepath.Join(dir, "file.json")
	cfg := fmt.Sprintf(`{
  "app": {"env": "test", "log_level": "error"},
  "storage": {"type": "file", "file_path": %q},
  "argon2": {"memory": 8192, "iterations": 1, "threads": 1, "salt_length": 16, "key_length": 16}
}`, dataFile)
	if err := os.WriteFile(cfgFile, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, ".env")

	var out bytes.Buffer
	if err := app.Run(context.Background(), []string{"-config", cfgFile, "-env", envFile, "seed"}, &out); err != nil {
		t.Fatalf("app.Run(seed) = %v", err)
	}

	if _, err := os.Stat(dataFile); err != nil {
		t.Fatalf("seed did not write %s: %v", dataFile, err)
	}

	out.Reset()
	if err := app.Run(context.Background(), []string{"-config", cfgFile, "-env", envFile, "count"}, &out); err != nil {
		t.Fatalf("app.Run(count) = %v", err)
	}
	if got, want := out.String(), "6\n"; got != want {
		t.Errorf("app.Run(count) printed %q, want: %q", got, want)
	}

	out.Reset()
	if err := app.Run(context.Background(), []string{"-config", cfgFile, "-env", envFile, "verify", "gui@hbtn.io", "guipwd"}, &out); err != nil {
		t.Errorf("app.Run(verify) = %v", err)
	}
}
