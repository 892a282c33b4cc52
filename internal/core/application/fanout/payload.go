package fanout

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"orderhub/internal/core/domain/model/notification"
)

// siteKey is reserved: {site} always renders the configured site name, even when
// the event data carries a "site" entry.
const siteKey = "site"

// render replaces {key} with the matching Data value and {site} with the site name.
// Unknown placeholders are left as they are.
func render(template string, data map[string]any, site string) string {
	if !strings.Contains(template, "{") {
		return template
	}

	pairs := make([]string, 0, 2*len(data)+2)
	pairs = append(pairs, "{"+siteKey+"}", site)
	for _, key := range slices.Sorted(maps.Keys(data)) {
		if key == siteKey {
			continue
		}
		pairs = append(pairs, "{"+key+"}", fmt.Sprint(data[key]))
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

type pushPayload struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Icon  string         `json:"icon,omitempty"`
	Data  map[string]any `json:"data"`
}

// buildPayload is the JSON the service worker receives. Data carries the event data
// plus notification_id, type and action_url, which win over same-named data keys.
func buildPayload(n *notification.Notification) ([]byte, error) {
	data := n.Data()
	if data == nil {
		data = make(map[string]any, 3)
	}
	data["notification_id"] = n.ID().String()
	data["type"] = string(n.Type())
	data["action_url"] = n.ActionURL()

	return json.Marshal(pushPayload{
		Title: n.Title(),
		Body:  n.Message(),
		Icon:  n.Icon(),
		Data:  data,
	})
}
