package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/ferdiebergado/hbnb/internal/model"
)

var (
	ErrUnknownCommand = errors.New("app: unknown command")
	ErrMissingArg     = errors.New("app: missing argument")
	ErrInvalidUser    = errors.New("app: invalid email/password")
)

type command func(ctx context.Context, p *Provider, args []string, out io.Writer) error

var commands = map[string]command{
	"all":     runAll,
	"count":   runCount,
	"show":    runShow,
	"destroy": runDestroy,
	"seed":    runSeed,
	"verify":  runVerify,
}

// Execute runs the command named by args[0].
func Execute(ctx context.Context, p *Provider, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: command", ErrMissingArg)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	return cmd(ctx, p, args[1:], out)
}

func optionalClass(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func classAndID(args []string) (class, id string, err error) {
	switch len(args) {
	case 0:
		return "", "", fmt.Errorf("%w: class name", ErrMissingArg)
	case 1:
		return "", "", fmt.Errorf("%w: instance id", ErrMissingArg)
	}
	return args[0], args[1], nil
}

func runAll(ctx context.Context, p *Provider, args []string, out io.Writer) error {
	objects, err := p.Storage.All(ctx, optionalClass(args))
	if err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(objects)) {
		fmt.Fprintln(out, objects[key])
	}
	return nil
}

func runCount(ctx context.Context, p *Provider, args []string, out io.Writer) error {
	n, err := p.Storage.Count(ctx, optionalClass(args))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, n)
	return nil
}

func runShow(ctx context.Context, p *Provider, args []string, out io.Writer) error {
	class, id, err := classAndID(args)
	if err != nil {
		return err
	}

	obj, err := p.Storage.Get(ctx, class, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, obj)
	return nil
}

func runDestroy(ctx context.Context, p *Provider, args []string, out io.Writer) error {
	class, id, err := classAndID(args)
	if err != nil {
		return err
	}

	obj, err := p.Storage.Get(ctx, class, id)
	if err != nil {
		return err
	}

	if err := model.Delete(ctx, p.Storage, obj); err != nil {
		return fmt.Errorf("destroy %s: %w", model.Key(obj), err)
	}
	fmt.Fprintln(out, model.Key(obj))
	return nil
}

func runSeed(ctx context.Context, p *Provider, _ []string, out io.Writer) error {
	state := model.NewState("California")
	city := model.NewCity(state.ID, "San Francisco")

	user := model.NewUser("gui@hbtn.io")
	if err := user.SetPassword(p.Hasher, "guipwd"); err != nil {
		return err
	}

	amenity := model.NewAmenity("Oven")
	place := model.NewPlace(city.ID, user.ID, "Lovely_place")
	place.AddAmenity(amenity)
	review := model.NewReview(place.ID, user.ID, "Amazing_place,_huge_kitchen")

	for _, obj := range []model.Entity{state, city, user, amenity, place, review} {
		if err := model.Save(ctx, p.Storage, obj); err != nil {
			return fmt.Errorf("seed %s: %w", obj.ClassName(), err)
		}
		fmt.Fprintln(out, model.Key(obj))
	}
	return nil
}

// runVerify checks a user's password against the stored hash. Unknown
// emails and wrong passwords fail the same way.
func runVerify(ctx context.Context, p *Provider, args []string, out io.Writer) error {
	switch len(args) {
	case 0:
		return fmt.Errorf("%w: email", ErrMissingArg)
	case 1:
		return fmt.Errorf("%w: password", ErrMissingArg)
	}
	email, password := args[0], args[1]

	users, err := p.Storage.All(ctx, model.ClassUser)
	if err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(users)) {
		user, ok := users[key].(*model.User)
		if !ok || user.Email != email {
			continue
		}

		matches, err := p.Hasher.Verify(password, user.Password)
		if err != nil {
			return fmt.Errorf("verify password of %s: %w", key, err)
		}
		if !matches {
			return ErrInvalidUser
		}
		fmt.Fprintln(out, key)
		return nil
	}
	return ErrInvalidUser
}
