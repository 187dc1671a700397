package journal

import (
	"strings"
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/tidwall/gjson"
)

func str(r gjson.Result, key string) string {
	v := r.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}

// localised prefers the key's _Localised companion.
func localised(r gjson.Result, key string) string {
	if s := str(r, key+"_Localised"); s != "" {
		return s
	}
	return str(r, key)
}

// token prefers the localised value, else prettifies a $token; value.
func token(r gjson.Result, key string) string {
	if s := str(r, key+"_Localised"); s != "" {
		return s
	}
	return PrettyToken(str(r, key))
}

var tokenPrefixes = []string{"government_", "economy_", "system_security_", "faction_", "allegiance_"}

// PrettyToken turns "$government_Democracy;" into "Democracy".
func PrettyToken(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, ";")
	lower := strings.ToLower(s)
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func integer(r gjson.Result, key string) (int64, bool) {
	v := r.Get(key)
	if v.Type != gjson.Number {
		return 0, false
	}
	return v.Int(), true
}

func intOr0(r gjson.Result, key string) int64 {
	v, _ := integer(r, key)
	return v
}

func float(r gjson.Result, key string) float64 {
	v := r.Get(key)
	if v.Type != gjson.Number {
		return 0
	}
	return v.Float()
}

func boolean(r gjson.Result, key string) bool {
	return r.Get(key).Type == gjson.True
}

func bodyID(r gjson.Result, key string) (int, bool) {
	v, ok := integer(r, key)
	if !ok || v < 0 {
		return 0, false
	}
	return int(v), true
}

func timestamp(r gjson.Result) time.Time {
	return timeField(r, "timestamp")
}

func timeField(r gjson.Result, key string) time.Time {
	raw := str(r, key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func stringList(r gjson.Result, key string) []string {
	arr := r.Get(key)
	if !arr.IsArray() {
		return nil
	}
	var out []string
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			out = append(out, strings.TrimSpace(v.Str))
		}
		return true
	})
	return out
}

func inventory(r gjson.Result, key string) []domain.InventoryItem {
	arr := r.Get(key)
	if !arr.IsArray() {
		return nil
	}
	var out []domain.InventoryItem
	arr.ForEach(func(_, v gjson.Result) bool {
		name := strings.ToLower(str(v, "Name"))
		if name == "" {
			return true
		}
		out = append(out, domain.InventoryItem{
			Name:      name,
			Localised: str(v, "Name_Localised"),
			Count:     int(intOr0(v, "Count")),
			Stolen:    int(intOr0(v, "Stolen")),
		})
		return true
	})
	return out
}

func systemInfo(r gjson.Result) domain.SystemInfo {
	info := domain.SystemInfo{
		Name:             str(r, "StarSystem"),
		Address:          intOr0(r, "SystemAddress"),
		StarClass:        str(r, "StarClass"),
		Allegiance:       str(r, "SystemAllegiance"),
		Government:       token(r, "SystemGovernment"),
		Economy:          token(r, "SystemEconomy"),
		Security:         token(r, "SystemSecurity"),
		Population:       intOr0(r, "Population"),
		ControllingPower: str(r, "ControllingPower"),
		Powers:           stringList(r, "Powers"),
		PowerplayState:   str(r, "PowerplayState"),
	}

	// Older records carry a bare string, newer ones an object.
	if sf := r.Get("SystemFaction"); sf.IsObject() {
		info.ControllingFaction = str(sf, "Name")
	} else if sf.Type == gjson.String {
		info.ControllingFaction = strings.TrimSpace(sf.Str)
	}

	r.Get("Factions").ForEach(func(_, f gjson.Result) bool {
		name := str(f, "Name")
		if name == "" {
			return true
		}
		info.Factions = append(info.Factions, domain.Faction{
			Name:       name,
			Government: str(f, "Government"),
			Allegiance: str(f, "Allegiance"),
			Influence:  float(f, "Influence"),
			State:      str(f, "FactionState"),
		})
		return true
	})

	if progress := r.Get("PowerplayConflictProgress"); progress.IsArray() {
		info.ConflictProgress = map[string]float64{}
		progress.ForEach(func(_, p gjson.Result) bool {
			if power := str(p, "Power"); power != "" {
				info.ConflictProgress[power] = float(p, "ConflictProgress")
			}
			return true
		})
	}
	return info
}
