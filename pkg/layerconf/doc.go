// Package layerconf loads layered, profile-aware application configuration.
//
// A load discovers YAML and JSON files under a base directory, keeps the
// documents whose profile selector matches the active profiles, deep-merges
// them with environment variables on top, expands ${reference} placeholders
// and finally hands the result to a validator.
//
// # Basic Usage
//
//	type Config struct {
//	    Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
//	    Database struct {
//	        Host     string `yaml:"host" validate:"required,hostname"`
//	        Password string `yaml:"password" validate:"required"`
//	    } `yaml:"database"`
//	}
//
//	manager := layerconf.New[Config](layerconf.NewStructValidator[Config]())
//	cfg, err := manager.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Files
//
// Files are located through environment variables, each with a default:
//
//	config.baseLocation        directory of the files       ./config
//	config.location            first file to load            application.yaml
//	config.additionalLocation  comma-separated extra files   (none)
//	profiles.active            comma-separated profiles      default
//
// Hyphenated spellings such as "config.base-location" are accepted for every
// key. Files are merged in the order listed; later files win.
//
// # Profiles
//
// A YAML file may hold several documents separated by "---". A document
// whose config.activate.on-profile value names an active profile is merged;
// a document without that key is merged when the "default" profile is
// active:
//
//	port: 3000
//	---
//	config:
//	  activate:
//	    on-profile: dev
//	port: 8080
//
// With profiles.active=dev the second document alone applies and the
// resulting port is 8080.
//
// # Keys
//
// Keys are normalized from kebab case to camel case before merging, so
// "log-levels" in YAML is read as "logLevels". Struct tags should use the
// camel form.
//
// # Environment
//
// Environment variables whose names contain a dot are merged last, at the
// path their name spells out: database.password=secret overrides the
// password of every file.
//
// # Placeholders
//
// String values may reference other values with ${...}. The environment is
// consulted first, then the merged configuration:
//
//	auth:
//	  server-url: https://auth.local
//	issuer: ${auth.serverUrl}/realms/${TENANT}
//
// An unresolvable placeholder fails the load.
//
// # Validation
//
// [NewStructValidator] decodes the configuration into a struct and runs
// go-playground/validator tags on it. Any type implementing [Validator] can
// be used instead. Every reported issue is logged and returned in a
// [ValidationError].
package layerconf
