package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agripath/agripath/internal/carousel"
	"github.com/agripath/agripath/internal/content"
	"github.com/agripath/agripath/internal/snapshot"
)

const snapshotWidth = 96

//nolint:gochecknoglobals // lipgloss styles are shared by the text renderers below.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logrus.Fatal(err)
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate content catalogs",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the banners and careers of the configured catalog",
	Run: func(cmd *cobra.Command, args []string) {
		c := loadCatalog(cmd.Context())
		if jsonOutput {
			printJSON(c)
			return
		}
		fmt.Fprintln(os.Stdout, headingStyle.Render(fmt.Sprintf("Banners (%d)", len(c.Banners))))
		for _, b := range c.Banners {
			fmt.Fprintf(os.Stdout, "  %s %s\n", b.Caption, dimStyle.Render(path.Base(b.Image)))
		}
		fmt.Fprintln(os.Stdout, headingStyle.Render(fmt.Sprintf("Careers (%d)", len(c.Careers))))
		for _, cr := range c.Careers {
			line := fmt.Sprintf("  %s %s", cr.Title, dimStyle.Render("("+cr.ID+")"))
			if cr.Course != nil {
				line += " " + dimStyle.Render("course: "+cr.Course.Name)
			}
			fmt.Fprintln(os.Stdout, line)
		}
	},
}

type validateResult struct {
	Path    string `json:"path"`
	Banners int    `json:"banners"`
	Careers int    `json:"careers"`
	Error   string `json:"error,omitempty"`
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var catalogValidateCmd = &cobra.Command{
	Use:   "validate [PATH...]",
	Short: "Check catalog files or directories. [Defaults to the configured catalog]",
	Long: "Decode and validate each catalog file or directory of fragments. " +
		"The command fails when any of them is invalid.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{settings.Catalog}
		}
		results := make([]validateResult, 0, len(args))
		failed := 0
		for _, p := range args {
			res := validateResult{Path: p}
			if p == "" {
				res.Path = "(bundled)"
			}
			c, err := content.Resolve(cmd.Context(), p)
			if err != nil {
				res.Error = err.Error()
				failed++
			} else {
				res.Banners, res.Careers = len(c.Banners), len(c.Careers)
			}
			results = append(results, res)
		}

		if jsonOutput {
			printJSON(results)
		} else {
			for _, r := range results {
				if r.Error != "" {
					fmt.Fprintf(os.Stdout, "%s %s: %s\n", failStyle.Render("✗"), r.Path, r.Error)
					continue
				}
				fmt.Fprintf(os.Stdout, "%s %s: %d banners, %d careers\n", okStyle.Render("✓"), r.Path, r.Banners, r.Careers)
			}
		}
		if failed > 0 {
			logrus.Fatalf("%d of %d catalogs are invalid", failed, len(results))
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Manage the careers you shortlisted",
	Long:  "View, add, remove or reset shortlisted careers. The same list is edited with 's' while browsing.",
	Run: func(cmd *cobra.Command, args []string) {
		m := openShortlist(loadCatalog(cmd.Context()))
		if jsonOutput {
			printJSON(m.Storage.Data.Shortlist)
			return
		}
		m.View(os.Stdout)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var shortlistAddCmd = &cobra.Command{
	Use:   "add [CAREER_ID]",
	Short: "Add a career to the shortlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m := openShortlist(loadCatalog(cmd.Context()))
		added, err := m.Add(args[0])
		if err != nil {
			logrus.Fatal(err)
		}
		if !added {
			fmt.Fprintf(os.Stdout, "%s is already shortlisted\n", args[0])
			return
		}
		fmt.Fprintf(os.Stdout, "Shortlisted %s\n", args[0])
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var shortlistRemoveCmd = &cobra.Command{
	Use:   "remove [CAREER_ID]",
	Short: "Remove a career from the shortlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m := openShortlist(nil)
		removed, err := m.Remove(args[0])
		if err != nil {
			logrus.Fatal(err)
		}
		if !removed {
			fmt.Fprintf(os.Stdout, "%s is not shortlisted\n", args[0])
			return
		}
		fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var shortlistResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the shortlist",
	Run: func(cmd *cobra.Command, args []string) {
		if err := openShortlist(nil).Reset(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "Shortlist cleared")
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the local profile: device id, referral code and wallet",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile",
	Run: func(cmd *cobra.Command, args []string) {
		d := openShortlist(nil).Storage.Data
		if jsonOutput {
			printJSON(d)
			return
		}
		fmt.Fprintf(os.Stdout, "Device:        %s\n", d.DeviceUUID)
		fmt.Fprintf(os.Stdout, "Referral code: %s\n", d.ReferralCode)
		fmt.Fprintf(os.Stdout, "Wallet:        %d pts\n", d.WalletPoints)
		fmt.Fprintf(os.Stdout, "Explored:      %d\n", len(d.Explored))
		fmt.Fprintf(os.Stdout, "Shortlisted:   %d\n", len(d.Shortlist))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var profileReferralCmd = &cobra.Command{
	Use:   "referral",
	Short: "Print your referral code",
	Run: func(cmd *cobra.Command, args []string) {
		code := openShortlist(nil).Storage.Data.ReferralCode
		fmt.Fprintln(os.Stdout, code)
		if cp, _ := cmd.Flags().GetBool("copy"); cp {
			if err := clipboard.WriteAll(code); err != nil {
				logrus.Warnf("clipboard unavailable: %v", err)
				return
			}
			logrus.Info("copied to clipboard")
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render a carousel frame to a PNG image",
	Long: "Lay out one carousel at the given width with the given item active and draw the visible " +
		"window, pagination dots included, to a PNG file.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("carousel")
		index, _ := cmd.Flags().GetInt("index")
		width, _ := cmd.Flags().GetInt("width")
		out, _ := cmd.Flags().GetString("out")

		frame, err := captureFrame(cmd.Context(), name, index, width)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := snapshot.Save(out, frame, snapshot.DefaultOptions()); err != nil {
			logrus.Fatalf("Unable to write snapshot: %v", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	},
}

// captureFrame lays out the named carousel with item index active.
func captureFrame(ctx context.Context, name string, index, width int) (snapshot.Frame, error) {
	c := loadCatalog(ctx)
	switch name {
	case "banners":
		cr := carousel.New[content.Banner](name, settings.Carousels.Banners.Settings())
		return layoutFrame(cr, c.Banners, index, width, func(b content.Banner) snapshot.Tile {
			return snapshot.Tile{Title: b.Caption, Lines: []string{path.Base(b.Image)}}
		})
	case "careers":
		cr := carousel.New[content.Career](name, settings.Carousels.Careers.Settings())
		return layoutFrame(cr, c.Careers, index, width, func(k content.Career) snapshot.Tile {
			lines := []string{k.Body}
			if len(k.Tags) > 0 {
				lines = append(lines, strings.Join(k.Tags, ", "))
			}
			return snapshot.Tile{Title: k.Title, Lines: lines}
		})
	}
	return snapshot.Frame{}, fmt.Errorf("unknown carousel %q: want banners or careers", name)
}

func layoutFrame[T any](c *carousel.Carousel[T], items []T, index, width int, label func(T) snapshot.Tile) (snapshot.Frame, error) {
	if index < 0 || index >= len(items) {
		return snapshot.Frame{}, fmt.Errorf("index %d out of range: %s has %d items", index, c.Name(), len(items))
	}
	c.SetItems(items)
	c.Attach(width)
	c.Restore(index)
	return snapshot.FrameOf(c, label), nil
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the settings file",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as TOML",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := settings.Encode()
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "# %s\n", settingsPath())
		os.Stdout.Write(data) //nolint:errcheck // stdout
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the settings file",
	Run: func(cmd *cobra.Command, args []string) {
		p := settingsPath()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(p); err == nil && !force {
			logrus.Fatalf("%s already exists; use --force to overwrite", p)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logrus.Fatal(err)
		}
		if err := settings.Write(p); err != nil {
			logrus.Fatalf("Unable to write settings: %v", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", p)
	},
}
