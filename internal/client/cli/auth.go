package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/dmitrijs2005/pvisualizer/internal/client/render"
	"github.com/dmitrijs2005/pvisualizer/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	profileTypes = []string{models.ProfileIndividualInvestor, models.ProfileProfessionalAdvisor, models.ProfileInstitution}
	countries    = []string{models.CountryIndia, models.CountryUnitedStates, models.CountryUnitedKingdom, models.CountryCanada}
	regions      = []string{models.RegionNorthAmerica, models.RegionEurope, models.RegionAsiaPacific, models.RegionGlobal}
	firmTypes    = []string{models.FirmBrokerDealer, models.FirmRIA, models.FirmBank, models.FirmAssetManager}
)

// Login prompts for email and password unless a verified session already
// exists.
func (a *App) Login(ctx context.Context) error {
	ok, err := a.auth.LoggedIn(ctx)
	if err != nil {
		return err
	}
	if ok {
		a.println("Already logged in.")
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, email, password); err != nil {
		a.println("Login unsuccessful:", err)
		return err
	}
	a.println("Login successful.")
	return nil
}

// Signup collects the account form, creates the account and logs in.
func (a *App) Signup(ctx context.Context) error {
	ok, err := a.auth.LoggedIn(ctx)
	if err != nil {
		return err
	}
	if ok {
		a.println("Already logged in.")
		return nil
	}

	acc, err := a.readAccount(models.Account{})
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password is required")
	}

	if err := a.auth.Signup(ctx, acc, password); err != nil {
		a.println("Signup unsuccessful:", err)
		return err
	}
	a.println("Account created, you are logged in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

// Status verifies the stored credential and prints the result.
func (a *App) Status(ctx context.Context) error {
	st, err := a.guard.Verify(ctx)
	if err != nil {
		return err
	}
	a.println("Session:", st)
	if m := a.heartbeat.Mode(); m != services.ModeUnknown {
		a.println("Server:", m)
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	return a.protect(ctx, func(ctx context.Context) error {
		p, err := a.auth.Profile(ctx)
		if err != nil {
			return err
		}
		return a.printer.Print(render.Profile(p))
	})
}

// UpdateProfile pre-fills the form with the current profile.
func (a *App) UpdateProfile(ctx context.Context) error {
	return a.protect(ctx, func(ctx context.Context) error {
		p, err := a.auth.Profile(ctx)
		if err != nil {
			return err
		}
		acc, err := a.readAccount(p.Account())
		if err != nil {
			return err
		}
		if err := a.auth.UpdateProfile(ctx, acc); err != nil {
			return err
		}
		a.println("Profile updated.")
		return nil
	})
}

func (a *App) readAccount(cur models.Account) (models.Account, error) {
	var (
		acc models.Account
		err error
	)
	steps := []struct {
		dst    *string
		prompt string
		cur    string
		opts   []string
	}{
		{&acc.FirstName, "First name", cur.FirstName, nil},
		{&acc.LastName, "Last name", cur.LastName, nil},
		{&acc.BusinessEmail, "Business email", cur.BusinessEmail, nil},
		{&acc.Company, "Company", cur.Company, nil},
		{&acc.ProfileType, "Profile type", cur.ProfileType, profileTypes},
		{&acc.Country, "Country", cur.Country, countries},
		{&acc.MarketRegion, "Market region", cur.MarketRegion, regions},
		{&acc.FirmType, "Firm type", cur.FirmType, firmTypes},
	}
	for _, s := range steps {
		if s.opts != nil {
			*s.dst, err = Choose(a.reader, s.prompt, s.opts, s.cur, a.out)
		} else {
			*s.dst, err = GetDefaultText(a.reader, s.prompt, s.cur, a.out)
		}
		if err != nil {
			return models.Account{}, err
		}
	}
	if acc.FirstName == "" || acc.BusinessEmail == "" {
		return models.Account{}, errors.New("first name and business email are required")
	}
	return acc, nil
}
