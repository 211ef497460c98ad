package siteconfig

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/theme"
)

// SocialIcons lists the accepted social link icons.
var SocialIcons = []string{
	"bluesky",
	"discord",
	"facebook",
	"github",
	"gitlab",
	"instagram",
	"linkedin",
	"mastodon",
	"npm",
	"slack",
	"twitter",
	"x",
	"youtube",
}

// Validate checks the configuration. Every problem is reported, joined into
// one error matching errors.ErrInvalidInput.
func (c *Config) Validate(reg *theme.Registry) error {
	var errs []error
	add := func(field string, value any, format string, args ...any) {
		errs = append(errs, errors.NewValidationError(field, value, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(c.Title) == "" {
		add("title", c.Title, "title is required")
	}
	if !strings.HasPrefix(c.Base, "/") || !strings.HasSuffix(c.Base, "/") {
		add("base", c.Base, "base path %q must start and end with /", c.Base)
	}
	if _, err := language.Parse(c.Lang); err != nil {
		errs = append(errs, errors.WrapValidation("lang", fmt.Errorf("invalid language tag %q: %w", c.Lang, err)))
	}
	if _, err := language.Parse(c.Images.Locale); err != nil {
		errs = append(errs, errors.WrapValidation("images.locale", fmt.Errorf("invalid locale %q: %w", c.Images.Locale, err)))
	}
	if !strings.HasPrefix(c.Images.URLPrefix, "/") {
		add("images.urlPrefix", c.Images.URLPrefix, "URL prefix %q must be root-relative", c.Images.URLPrefix)
	}

	errs = append(errs, validateItems("nav", c.Nav)...)
	errs = append(errs, validateItems("sidebar", c.Sidebar)...)

	for i, s := range c.SocialLinks {
		field := fmt.Sprintf("socialLinks[%d]", i)
		if !slices.Contains(SocialIcons, s.Icon) {
			add(field+".icon", s.Icon, "unknown icon %q", s.Icon)
		}
		if !isExternal(s.Link) {
			add(field+".link", s.Link, "social link %q must be an absolute http(s) URL", s.Link)
		}
	}

	if err := c.Theme.Validate(reg); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateItems(prefix string, items []NavItem) []error {
	var errs []error
	for i, item := range items {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if strings.TrimSpace(item.Text) == "" {
			errs = append(errs, errors.NewValidationError(field+".text", item.Text, "text is required"))
		}
		switch {
		case item.Link == "" && len(item.Items) == 0:
			errs = append(errs, errors.NewValidationError(field, item.Text, "entry needs a link or child items"))
		case item.Link != "" && !validLink(item.Link):
			errs = append(errs, errors.NewValidationError(field+".link", item.Link,
				fmt.Sprintf("link %q must be root-relative or an absolute http(s) URL", item.Link)))
		}
		errs = append(errs, validateItems(field+".items", item.Items)...)
	}
	return errs
}

func validLink(link string) bool {
	return (strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//")) || isExternal(link)
}
