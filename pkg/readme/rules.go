package readme

import (
	"maps"
	"regexp"
	"slices"
)

// SectionRules classify a section title as example-bearing. Any match keeps
// the section; titles are matched case-insensitively.
var SectionRules = []Rule{
	{Name: "usage", Pattern: regexp.MustCompile(`(?i)usage|how to use|getting started|quick start|examples?`)},
	{Name: "installation", Pattern: regexp.MustCompile(`(?i)installation|install`)},
	{Name: "integration", Pattern: regexp.MustCompile(`(?i)implementation|integration`)},
	{Name: "setup", Pattern: regexp.MustCompile(`(?i)setup|configuration`)},
}

// NoiseRules match block bodies that look like code but carry no usage
// information. They are checked against the trimmed body.
var NoiseRules = []Rule{
	{Name: "changelog", Pattern: regexp.MustCompile(`(?i)^(version|changelog|license|copyright)\b`)},
	{Name: "semver", Pattern: regexp.MustCompile(`^v?\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?$`)},
	{Name: "url", Pattern: regexp.MustCompile(`^https?://\S+$`)},
	{Name: "key-value", Pattern: regexp.MustCompile(`^[\w.-]+:[ \t]*[^\n]+$`)},
	{Name: "comment", Pattern: regexp.MustCompile(`^(?://|#(?:[ \t!]|$)|/\*|<!--)[^\n]*$`)},
}

// EcosystemRules match bodies that are recognisably Swift, Objective-C or
// dependency-manager code.
var EcosystemRules = []Rule{
	{Name: "import", Pattern: regexp.MustCompile(`(?m)^\s*(?:@import|#import|import)\s+\S+`)},
	{Name: "declaration", Pattern: regexp.MustCompile(`\b(?:class|struct|enum|protocol|extension|func)\s+\w+`)},
	{Name: "dependency", Pattern: regexp.MustCompile(`\bpod\s+['"]|\bgithub\s+"[^"\n]+"|\.package\s*\(`)},
	{Name: "framework", Pattern: regexp.MustCompile(`\b(?:UIKit|SwiftUI|Foundation|Combine|AppKit|CocoaPods|Carthage|UIView|UIViewController|UIApplication|NSObject|URLSession)\b`)},
	{Name: "lifecycle", Pattern: regexp.MustCompile(`\b(?:viewDidLoad|viewWillAppear|viewDidAppear|viewWillDisappear|viewDidDisappear|didFinishLaunchingWithOptions|applicationDidBecomeActive)\b`)},
	{Name: "attribute", Pattern: regexp.MustCompile(`@(?:objc|IBOutlet|IBAction|IBDesignable|IBInspectable|State|Binding|Published|ObservedObject|EnvironmentObject|MainActor|available|escaping|discardableResult|UIApplicationMain|main)\b`)},
}

// LanguageRule maps a body shape to a language tag.
type LanguageRule struct {
	Language string
	Pattern  *regexp.Regexp
}

// LanguageRules are tried in order by [DetectLanguage]; the first match wins.
var LanguageRules = []LanguageRule{
	{Language: "ruby", Pattern: regexp.MustCompile(`(?m)^\s*(?:pod\s+['"]|use_frameworks!|platform\s+:(?:ios|osx|macos|tvos|watchos|visionos))`)},
	{Language: "swift", Pattern: regexp.MustCompile(`(?m)^\s*import\s+\w+|\bfunc\s+\w+|(?:^|[^@\w])(?:class|struct|enum|protocol|extension)\s+\w+|\b(?:let|var)\s+\w+\s*[:=]`)},
	{Language: "objc", Pattern: regexp.MustCompile(`@(?:interface|implementation|property|protocol|end)\b|#import\s+[<"]|@import\s+\w+|\[\[\w+\s+alloc\]|\b[A-Z]\w*\s*\*\s*\w+\s*[=;]`)},
	{Language: "bash", Pattern: regexp.MustCompile(`\$\{?[A-Za-z_]\w*|\bsudo\s+|\b(?:brew|gem|pod|carthage|npm|yarn|apt-get|swift)\s+(?:install|update|bootstrap|build|init|package)\b|\bgit\s+clone\b`)},
	{Language: "json", Pattern: regexp.MustCompile(`(?s)^\{\s*"[^"]+"\s*:.*\}$`)},
}

// allowedLanguages are declared tags accepted without further inspection.
var allowedLanguages = map[string]bool{
	"swift":       true,
	"objc":        true,
	"objective-c": true,
	"ruby":        true,
	"bash":        true,
	"shell":       true,
	"json":        true,
	"plist":       true,
}

// Languages returns the declared fence tags that are always kept, sorted.
func Languages() []string {
	return slices.Sorted(maps.Keys(allowedLanguages))
}
