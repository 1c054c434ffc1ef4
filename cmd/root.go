/*
Copyright © 2026 tewilkins

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iofs"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/internal/iologger"
	app "github.com/tewilkins/FlowMER-goulburn-geofabric/pkg"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
	Use:     "geofab",
	Short:   "Extract Goulburn streams and catchments from the Geofabric",
	Long: `geofab locates stream-network and catchment layers of the Australian
Hydrological Geospatial Fabric (Geofabric), keeps the features of a region,
exports them as shapefiles and GeoJSON, and reports descriptive statistics
with an overview image.

Configuration files are in ~/.config/geofab:
  config.yaml    general settings (GEOFAB_* environment variables override)
  datasets.yaml  where to look for each dataset and how to pick layers

Examples:
  geofab extract
  geofab extract streams -d /data/geofabric -o ./output
  geofab inspect /data/geofabric/SH_Network.gpkg`,
	PersistentPreRunE: bootstrap,
	RunE:              runRoot,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDatasetsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Debug("Configuration files are available",
		"config_dir", config.ConfigDir(homeDir))

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, appending to the log
	// file started above
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "geofab version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for geofab")

	rootCmd.AddCommand(getExtractCmd(), getInspectCmd())
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initDefaults(v)
	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initDefaults keeps settings missing from an older config.yaml at
// their default values instead of zero values.
func initDefaults(v *viper.Viper) {
	def := config.New()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("output_prefix", def.OutputPrefix)
	v.SetDefault("region", def.Region)
	v.SetDefault("filter", def.Filter)
	v.SetDefault("overwrite", def.Overwrite)
	v.SetDefault("plot", def.Plot)
	v.SetDefault("geopackage", def.GeoPackage)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.destination", def.Log.Destination)
	v.SetDefault("jobs_number", def.JobsNumber)
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GEOFAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Data and output
	v.BindEnv("data_dir", "GEOFAB_DATA_DIR")
	v.BindEnv("output_dir", "GEOFAB_OUTPUT_DIR")
	v.BindEnv("output_prefix", "GEOFAB_OUTPUT_PREFIX")

	// Extraction
	v.BindEnv("region", "GEOFAB_REGION")
	v.BindEnv("filter", "GEOFAB_FILTER")
	v.BindEnv("overwrite", "GEOFAB_OVERWRITE")
	v.BindEnv("plot", "GEOFAB_PLOT")
	v.BindEnv("geopackage", "GEOFAB_GEOPACKAGE")

	// Log configuration
	v.BindEnv("log.level", "GEOFAB_LOG_LEVEL")
	v.BindEnv("log.format", "GEOFAB_LOG_FORMAT")
	v.BindEnv("log.destination", "GEOFAB_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GEOFAB_JOBS_NUMBER")

	v.AutomaticEnv()
}
