package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// Query-string keys
const (
	QueryPrice          = "price"
	QueryRedistribution = "redistribution"
	QueryProgressivity  = "progressivity"
	QueryRural          = "rural"
	QuerySubsidies      = "subsidies"
	QueryTerritory      = "territory"
	QueryMeasure        = "measure"
)

// ErrUnknownMeasure is returned when a query names a measure that is not registered
var ErrUnknownMeasure = errors.New("unknown measure")

// ParseQuery reads parameters from a query string such as
// "?redistribution=70&measure=equal-capita". Every key is optional and falls
// back to defaults. raw may also be a full URL. Malformed values are errors;
// out-of-range values are left for Sanitize.
func ParseQuery(raw string, defaults domain.Parameters, ref *domain.ReferenceData) (domain.Parameters, error) {
	return ParseQueryWithMeasures(raw, defaults, ref, nil)
}

// ParseQueryWithMeasures is ParseQuery that also applies the named measure.
// The measure is applied to the defaults first so explicit keys override it.
// With a nil registry the measure name is only recorded.
func ParseQueryWithMeasures(raw string, defaults domain.Parameters, ref *domain.ReferenceData, measures *transform.TemplateRegistry) (domain.Parameters, error) {
	values, err := url.ParseQuery(queryPart(raw))
	if err != nil {
		return domain.Parameters{}, fmt.Errorf("failed to parse query: %w", err)
	}

	p := defaults.Clone()

	if name := values.Get(QueryMeasure); name != "" {
		if measures == nil {
			p.Measure = name
		} else {
			t, ok := measures.Get(name)
			if !ok {
				return domain.Parameters{}, fmt.Errorf("%w: %s", ErrUnknownMeasure, name)
			}
			if p, err = transform.ApplyTemplate(p, t); err != nil {
				return domain.Parameters{}, fmt.Errorf("failed to apply measure %s: %w", name, err)
			}
		}
	}

	floatsByKey := []struct {
		key   string
		value *float64
	}{
		{QueryPrice, &p.CarbonPrice},
		{QueryRedistribution, &p.DirectRebateShare},
		{QueryProgressivity, &p.ProgressivityWeight},
		{QueryRural, &p.RuralBonusShare},
	}
	for _, f := range floatsByKey {
		if !values.Has(f.key) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(values.Get(f.key)), 64)
		if err != nil {
			return domain.Parameters{}, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.value = v
	}

	if values.Has(QuerySubsidies) {
		alloc, err := parseSubsidies(values.Get(QuerySubsidies), ref)
		if err != nil {
			return domain.Parameters{}, err
		}
		p.SubsidyAllocation = alloc
	}

	if values.Has(QueryTerritory) {
		v, err := strconv.ParseBool(strings.TrimSpace(values.Get(QueryTerritory)))
		if err != nil {
			return domain.Parameters{}, fmt.Errorf("invalid %s: %w", QueryTerritory, err)
		}
		p.TerritoryView = v
	}

	return p, nil
}

// parseSubsidies reads comma-separated whole percents in catalog order
func parseSubsidies(raw string, ref *domain.ReferenceData) ([]domain.SubsidyShare, error) {
	parts := strings.Split(raw, ",")
	alloc := make([]domain.SubsidyShare, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %d: %w", QuerySubsidies, i, err)
		}
		alloc[i].Percent = v
		if ref != nil && i < len(ref.SubsidyCatalog) {
			alloc[i].Name = ref.SubsidyCatalog[i]
		}
	}
	return alloc, nil
}

// EncodeQuery is the inverse of ParseQuery
func EncodeQuery(params domain.Parameters) url.Values {
	values := url.Values{}
	values.Set(QueryPrice, formatFloat(params.CarbonPrice))
	values.Set(QueryRedistribution, formatFloat(params.DirectRebateShare))
	values.Set(QueryProgressivity, formatFloat(params.ProgressivityWeight))
	values.Set(QueryRural, formatFloat(params.RuralBonusShare))

	if len(params.SubsidyAllocation) > 0 {
		parts := make([]string, len(params.SubsidyAllocation))
		for i, s := range params.SubsidyAllocation {
			parts[i] = strconv.Itoa(s.Percent)
		}
		values.Set(QuerySubsidies, strings.Join(parts, ","))
	}
	if params.TerritoryView {
		values.Set(QueryTerritory, "true")
	}
	if params.Measure != "" {
		values.Set(QueryMeasure, params.Measure)
	}
	return values
}

// ShareURL returns base with params encoded as its query string, replacing
// any query base already had
func ShareURL(base string, params domain.Parameters) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("share base URL is not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid share base URL: %w", err)
	}
	u.RawQuery = EncodeQuery(params).Encode()
	return u.String(), nil
}

func queryPart(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
