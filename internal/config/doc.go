// Package config provides configuration parsing for vango-lite.
//
// The configuration is stored in vango-lite.json (or vango-lite.yaml) at
// the project root. Every key is optional; missing keys take their
// defaults.
//
// # Configuration File Structure
//
//	{
//	  "render": { "maxPasses": 25 },
//	  "hooks": { "strictOrder": true },
//	  "memo": { "cacheSize": 256 },
//	  "lazy": { "placeholder": "Loading component...", "timeout": "5s" },
//	  "log": { "level": "info", "format": "text" },
//	  "preview": { "host": "localhost", "port": 3000 },
//	  "export": { "dir": "snapshots", "bucket": "my-bucket", "prefix": "demo/", "region": "eu-west-1" }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s := vango.NewSession(doc, cfg.SessionOptions(logger)...)
package config
