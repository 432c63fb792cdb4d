package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CompanyAddress is the merchant's ship-from address.
type CompanyAddress struct {
	Line1      string `mapstructure:"line1"`
	Line2      string `mapstructure:"line2"`
	City       string `mapstructure:"city"`
	Region     string `mapstructure:"region"`
	PostalCode string `mapstructure:"postalCode"`
	Country    string `mapstructure:"country"`
}

// TaxSettings are the operator-editable knobs of the tax pipeline. They are
// read per request; edits to taxgate.yml take effect without a restart.
type TaxSettings struct {
	CompanyCode        string         `mapstructure:"companyCode"`
	CompanyAddress     CompanyAddress `mapstructure:"companyAddress"`
	CurrencyCode       string         `mapstructure:"currencyCode"`
	GuestCustomerCode  string         `mapstructure:"guestCustomerCode"`
	DisableCommit      bool           `mapstructure:"disableCommit"`
	DisableCalculation bool           `mapstructure:"disableCalculation"`
}

func DefaultTaxSettings() TaxSettings {
	return TaxSettings{
		CurrencyCode:      "USD",
		GuestCustomerCode: "99999",
	}
}

// SettingsHolder hands out the current TaxSettings snapshot. Reads are
// lock-free; reloads swap the whole value.
type SettingsHolder struct {
	current atomic.Value // holds TaxSettings
}

func NewSettingsHolder() (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("taxgate")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/taxgate")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TAXGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	holder := &SettingsHolder{}
	if err := holder.load(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.load(v); err != nil {
			log.Printf("taxgate settings reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticSettingsHolder wraps fixed settings, for tests.
func NewStaticSettingsHolder(settings TaxSettings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func (h *SettingsHolder) Current() TaxSettings {
	return h.current.Load().(TaxSettings)
}

// Replace swaps the active settings, for admin-driven updates.
func (h *SettingsHolder) Replace(settings TaxSettings) {
	h.current.Store(settings)
}

func (h *SettingsHolder) load(v *viper.Viper) error {
	var settings TaxSettings
	if err := v.UnmarshalKey("tax", &settings); err != nil {
		return err
	}
	h.current.Store(settings)
	return nil
}

func applyDefaults(v *viper.Viper) {
	defaults := DefaultTaxSettings()
	v.SetDefault("tax.currencyCode", defaults.CurrencyCode)
	v.SetDefault("tax.guestCustomerCode", defaults.GuestCustomerCode)
	v.SetDefault("tax.disableCommit", false)
	v.SetDefault("tax.disableCalculation", false)
}
