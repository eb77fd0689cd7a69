// Package config loads the daemon configuration from YAML.
//
// Example file:
//
//	api_root: /srv/api
//	doc_cache_root: /var/cache/apigen
//	listen: ":8080"
//	log:
//	  level: info
//	  format: text
//	stats:
//	  schedule: "*/5 * * * *"
//
// APIGEN_API_ROOT, when set, overrides api_root.
package config
