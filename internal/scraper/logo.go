package scraper

import "regexp"

var (
	logoSignatureRe = regexp.MustCompile(`&s=[^&]*$`)
	logoSmallRe     = regexp.MustCompile(`([?&])w=50(&|$)`)
	logoLargeRe     = regexp.MustCompile(`[?&]w=200(&|$)`)
)

// UpgradeLogoQuality 把 HLTV 队标缩略图 w=50 提升到 w=200，并去掉末尾签名参数 &s=
// 签名与尺寸绑定，改尺寸后必须去掉签名
func UpgradeLogoQuality(u string) string {
	if u == "" {
		return u
	}
	u = logoSignatureRe.ReplaceAllString(u, "")
	// 相邻的 w=50 共用一个 &，单次替换只能改掉一半
	for logoSmallRe.MatchString(u) {
		u = logoSmallRe.ReplaceAllString(u, "${1}w=200${2}")
	}
	return u
}

// LogoNeedsUpgrade 仍为小图，或已是大图但残留签名
func LogoNeedsUpgrade(u string) bool {
	if logoSmallRe.MatchString(u) {
		return true
	}
	return logoLargeRe.MatchString(u) && logoSignatureRe.MatchString(u)
}

func upgradeLogoPtr(u *string) *string {
	if u == nil {
		return nil
	}
	v := UpgradeLogoQuality(*u)
	return &v
}
