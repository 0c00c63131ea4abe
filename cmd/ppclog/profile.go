package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelwehr/ppclog/internal/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the pilot profile",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update pilot profile fields",
	Example: `  ppclog profile set --name "Pat Smith" --certificate sport
  ppclog profile set --max-wind 12 --max-crosswind 8`,
	RunE: runProfileSet,
}

var (
	profileName        string
	profileCertificate string
	profileCertNumber  string
	profileMedical     string
	profileMaxWind     float64
	profileMaxXwind    float64
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)

	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Full name")
	profileSetCmd.Flags().StringVar(&profileCertificate, "certificate", "",
		"Certificate type (none, student, sport, private)")
	profileSetCmd.Flags().StringVar(&profileCertNumber, "certificate-number", "",
		"Certificate number")
	profileSetCmd.Flags().StringVar(&profileMedical, "medical", "",
		"Medical type (none, basic_med, class_3, class_2, class_1)")
	profileSetCmd.Flags().Float64Var(&profileMaxWind, "max-wind", 0,
		"Personal max wind speed, mph")
	profileSetCmd.Flags().Float64Var(&profileMaxXwind, "max-crosswind", 0,
		"Personal max crosswind, mph")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	profile, err := app.Store.GetPilotProfile(context.Background())
	if errors.Is(err, models.ErrNotFound) {
		printInfo("No profile yet. Run: ppclog profile set --name \"...\"")
		return nil
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(profile)
		return nil
	}

	if profile.FullName != nil {
		printInfo("Name: %s", *profile.FullName)
	}
	if profile.CertificateType != "" {
		line := fmt.Sprintf("Certificate: %s", profile.CertificateType)
		if profile.CertificateNumber != nil {
			line += " #" + *profile.CertificateNumber
		}
		printInfo("%s", line)
	}
	if profile.MedicalType != "" {
		printInfo("Medical: %s", profile.MedicalType)
	}
	if profile.MaxWindSpeed != nil {
		printInfo("Max wind: %.0f mph", *profile.MaxWindSpeed)
	}
	if profile.MaxCrosswind != nil {
		printInfo("Max crosswind: %.0f mph", *profile.MaxCrosswind)
	}
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	profile, err := app.Store.GetPilotProfile(ctx)
	if errors.Is(err, models.ErrNotFound) {
		profile = &models.PilotProfile{}
	} else if err != nil {
		return err
	}

	if profileName != "" {
		profile.FullName = &profileName
	}
	if profileCertificate != "" {
		profile.CertificateType = models.CertificateType(profileCertificate)
	}
	if profileCertNumber != "" {
		profile.CertificateNumber = &profileCertNumber
	}
	if profileMedical != "" {
		profile.MedicalType = models.MedicalType(profileMedical)
	}
	if profileMaxWind > 0 {
		profile.MaxWindSpeed = &profileMaxWind
	}
	if profileMaxXwind > 0 {
		profile.MaxCrosswind = &profileMaxXwind
	}

	if err := app.Store.SavePilotProfile(ctx, profile); err != nil {
		return err
	}
	printSuccess("Profile saved")
	return nil
}
