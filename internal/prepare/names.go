package prepare

import "strings"

// DisplayNameConfig is the subset of config driving user display-name
// decoration (spec.md §4.C5 "Display-name formatting").
type DisplayNameConfig struct {
	UseJobTitleNameUsers bool
	ShowExternalID       bool
}

// formatDisplayName builds timecamp_user_name from a normalised base name,
// optionally decorated with job title (innermost) and external id
// (outermost, always last) — the base name itself never carries either
// decoration, even if present verbatim in the source.
func formatDisplayName(baseName, jobTitle, externalID string, cfg DisplayNameConfig) string {
	name := baseName
	if externalID != "" {
		name = strings.TrimSuffix(name, " ("+externalID+")")
	}
	if jobTitle != "" && strings.HasPrefix(name, jobTitle+" [") && strings.HasSuffix(name, "]") {
		name = strings.TrimSuffix(strings.TrimPrefix(name, jobTitle+" ["), "]")
	}
	if cfg.UseJobTitleNameUsers && jobTitle != "" {
		name = jobTitle + " [" + name + "]"
	}
	if cfg.ShowExternalID && externalID != "" {
		name = name + " (" + externalID + ")"
	}
	return name
}

// resolveEmail implements spec.md §4.C5 "Email handling". raw may be a
// single address or a comma-separated list; replaceDomain is the
// configured replacement domain with any leading "@" already stripped (an
// empty string means no replacement is configured).
func resolveEmail(raw, replaceDomain string) string {
	candidates := splitEmails(raw)
	if len(candidates) == 0 {
		return ""
	}

	chosen := candidates[0]
	if replaceDomain != "" {
		for _, c := range candidates {
			if domainOf(c) == replaceDomain {
				chosen = c
				break
			}
		}
		return withDomain(chosen, replaceDomain)
	}
	return strings.ToLower(chosen)
}

// resolveRealEmail applies the same domain replacement to a single
// secondary email, without the multi-address selection logic (real_email
// is never a comma-separated list per spec.md §3).
func resolveRealEmail(raw, replaceDomain string) string {
	if raw == "" {
		return ""
	}
	if replaceDomain != "" {
		return withDomain(raw, replaceDomain)
	}
	return strings.ToLower(raw)
}

func splitEmails(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func domainOf(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}

func withDomain(email, domain string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		local = email
	}
	return strings.ToLower(local) + "@" + strings.ToLower(domain)
}
