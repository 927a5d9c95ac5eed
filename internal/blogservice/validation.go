package blogservice

import (
	"github.com/hexforge/blogdeck/internal/common"
)

func validateBlogName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 1, 15), "name", "must not be longer than 15 characters")
}

func validateBlogDescription(v *common.Validator, description string) {
	v.Check(description != "", "description", "must be provided")
	v.Check(v.CheckStringLength(description, 1, 500), "description", "must not be longer than 500 characters")
}

func validateWebsiteURL(v *common.Validator, websiteURL string) {
	v.Check(websiteURL != "", "websiteUrl", "must be provided")
	v.Check(v.CheckStringLength(websiteURL, 1, 100), "websiteUrl", "must not be longer than 100 characters")
	v.Check(v.CheckURL(websiteURL), "websiteUrl", "must be a valid URL")
}

func validatePostTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 30), "title", "must not be longer than 30 characters")
}

func validatePostShortDescription(v *common.Validator, shortDescription string) {
	v.Check(shortDescription != "", "shortDescription", "must be provided")
	v.Check(v.CheckStringLength(shortDescription, 1, 100), "shortDescription", "must not be longer than 100 characters")
}

func validatePostContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
	v.Check(v.CheckStringLength(content, 1, 1000), "content", "must not be longer than 1000 characters")
}
