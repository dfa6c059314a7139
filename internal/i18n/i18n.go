// Package i18n translates user-facing messages into the working language of
// a request. Message keys are the English text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/templui/campus-collector/internal/model"
)

// Message keys
const (
	MsgMissingFields      = "Missing required fields"
	MsgInvalidCollection  = "Invalid university"
	MsgInvalidFileType    = "Invalid file type for %s. Only JPEG and PNG are allowed."
	MsgFileTooLarge       = "File %s exceeds %dMB limit"
	MsgDescriptionTooLong = "Description for %s exceeds %d characters"
	MsgUploadFailed       = "Upload failed. Please try again."
	MsgInvalidBody        = "Invalid request body"
	MsgBodyTooLarge       = "Upload exceeds %dMB in total"
	MsgNoImage            = "Please provide an image"
	MsgAPIKeyMissing      = "GLM API key is not configured. Set GLM_API_KEY in the .env file"
	MsgUpstreamFailed     = "GLM API request failed: %d %s"
	MsgMalformedReply     = "AI response format error, please try again"
	MsgAnalyzeTimeout     = "AI analysis timed out, please try again"
	MsgTooManyRequests    = "Too many requests. Please try again later."
	MsgServerError        = "Server error"
)

var chinese = map[string]string{
	MsgMissingFields:      "缺少必填字段",
	MsgInvalidCollection:  "无效的学校",
	MsgInvalidFileType:    "文件 %s 类型无效，仅支持 JPEG 和 PNG",
	MsgFileTooLarge:       "文件 %s 超过 %dMB 限制",
	MsgDescriptionTooLong: "%s 的描述超过 %d 个字符",
	MsgUploadFailed:       "上传失败，请重试",
	MsgInvalidBody:        "请求格式错误",
	MsgBodyTooLarge:       "上传内容总大小超过 %dMB",
	MsgNoImage:            "请提供图片",
	MsgAPIKeyMissing:      "GLM API Key 未配置，请在 .env 文件中设置 GLM_API_KEY",
	MsgUpstreamFailed:     "GLM API 调用失败: %d %s",
	MsgMalformedReply:     "AI 响应格式错误，请重试",
	MsgAnalyzeTimeout:     "AI 分析超时，请重试",
	MsgTooManyRequests:    "请求过于频繁，请稍后再试",
	MsgServerError:        "服务器错误",
}

var tags = map[model.Language]language.Tag{
	model.LanguageChinese: language.Chinese,
	model.LanguageEnglish: language.English,
}

// Chinese first: it is the fallback when nothing matches.
var matcher = language.NewMatcher([]language.Tag{language.Chinese, language.English})

func init() {
	for key, msg := range chinese {
		err := message.SetString(language.Chinese, key, msg)
		if err != nil {
			panic(err)
		}
	}
}

// Match picks the supported language for the given preferences, in order.
// Values may be plain codes ("en"), regional tags ("zh-CN") or
// Accept-Language headers. Anything unsupported yields Chinese.
func Match(preferences ...string) model.Language {
	tag, _ := language.MatchStrings(matcher, preferences...)
	base, _ := tag.Base()
	if base.String() == "en" {
		return model.LanguageEnglish
	}
	return model.LanguageChinese
}

// Sprintf formats the message key in lang.
func Sprintf(lang model.Language, key string, args ...any) string {
	tag, ok := tags[lang]
	if !ok {
		tag = language.Chinese
	}
	return message.NewPrinter(tag).Sprintf(key, args...)
}
