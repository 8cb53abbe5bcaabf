package config

import "github.com/backtrail-dev/backtrail/pkg/route"

// Table converts the declared groups and routes into a route table.
// Groups are registered first, then standalone routes, preserving the
// order within each list.
func (c *Config) Table(opts ...route.TableOption) *route.Table {
	entries := make([]route.Entry, 0, len(c.Groups)+len(c.Routes))
	for _, g := range c.Groups {
		routes := make([]route.Route, 0, len(g.Routes))
		for _, r := range g.Routes {
			routes = append(routes, route.Route{
				Pattern: r.Pattern,
				Exact:   r.Exact,
				Name:    r.Name,
			})
		}
		entries = append(entries, route.GroupEntry(route.Group{
			Name:   g.Name,
			Routes: routes,
		}))
	}
	for _, r := range c.Routes {
		entries = append(entries, route.RouteEntry(route.Route{
			Pattern: r.Pattern,
			Exact:   r.Exact,
			Name:    r.Name,
		}))
	}
	return route.NewTable(entries, opts...)
}

// TabGroup converts the tabs section into a classifier tab group. The
// second return is false when no tabs are configured.
func (c *Config) TabGroup() (route.TabGroup, bool) {
	if len(c.Tabs.Patterns) == 0 {
		return route.TabGroup{}, false
	}
	return route.TabGroup{
		Patterns: c.Tabs.Patterns,
		Index:    c.Tabs.Index,
	}, true
}
