// Package config provides configuration parsing for Backtrail
// applications.
//
// The configuration is stored in backtrail.json at the project root.
// This package handles loading, saving, and validating configuration,
// and converting the declared routes into a route table.
//
// # Configuration File Structure
//
//	{
//	  "name": "myapp",
//	  "server": {
//	    "host": "localhost",
//	    "port": 4600
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "myapp"
//	  },
//	  "bridge": {
//	    "updateRate": 20,
//	    "updateBurst": 40
//	  },
//	  "groups": [
//	    {
//	      "name": "settings",
//	      "routes": [
//	        {"pattern": "/settings", "exact": true},
//	        {"pattern": "/settings/:section"}
//	      ]
//	    }
//	  ],
//	  "routes": [
//	    {"pattern": "/", "exact": true, "name": "home"},
//	    {"pattern": "*rest", "name": "not-found"}
//	  ],
//	  "tabs": {
//	    "patterns": ["/feed", "/search", "/profile"],
//	    "index": "/feed"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table := cfg.Table()
package config
