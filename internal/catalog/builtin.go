package catalog

// Techniques detected by the WAF log parser, with their dashboard labels.
var builtinLabels = map[string]string{
	"T1190":     "Exploit Public-Facing Application (SQLi / RFI / LFI)",
	"T1203":     "Directory Traversal / File Disclosure",
	"T1059.004": "Shellshock Bash RCE",
	"T1505.003": "PHPUnit RCE",
	"T1505":     "Web Shell / Malicious Web Component",
	"T1059.001": "Command Injection",
	"T1055":     "Cross-Site Scripting (XSS)",
	"T1110.001": "Bruteforce / Credential Stuffing",
	"T1595.001": "Web Directory Brute Force / Recon",
	"T1595.002": "Login Page Discovery",
	"T1595.003": "Debug Interface Scanning (Xdebug / PhpStorm)",
	"T1592.004": "Sensitive File Enumeration (.env / .git / config)",
	"T1083":     "File & Directory Discovery",
}

var builtinOwasp = map[string]string{
	// A01
	"T1592.004": "A01 Broken Access Control (Sensitive Files)",
	"T1203":     "A01 Broken Access Control (Directory Traversal)",
	"T1083":     "A01 Broken Access Control (Directory Listing)",
	"T1595.001": "A01 Broken Access Control (Recon / Admin Pages)",
	// A03
	"T1190":     "A03 Injection (SQLi / Exploit App)",
	"T1059.001": "A03 Injection (Command Injection)",
	"T1059.004": "A03 Injection (RCE / Shellshock)",
	"T1505.003": "A03 Injection (PHPUnit RCE)",
	"T1055":     "A03 Injection (XSS)",
	// A07
	"T1110.001": "A07 Authentication Failure (Bruteforce)",
	"T1595.002": "A07 Authentication Failure (Login Page Discovery)",
	// A05
	"T1505": "A05 Security Misconfiguration (Web Shell / Web Component)",
}

// Monitored hostnames and the system names shown for them.
var builtinIdentities = map[string]string{
	"tos-nusantara.pelindo.co.id": "Terminal Operating System Nusantara Cluster 2 - Palapa",
	"praya.pelindo.co.id":         "Terminal Operating System Nusantara Cluster 2 - Praya",
	"parama.pelindo.co.id":        "Terminal Operating System Nusantara Parama",
	"phinnisi.pelindo.co.id":      "Vessel Management System",
	"ptosc.pelindo.co.id":         "Pelindo Terminal Operating System Car",
	"ptosr.pelindo.co.id":         "Pelindo Terminal Operating System Roro",
	"tos-nusantara.ilcs.co.id":    "Terminal Operating System Nusantara (ILCS)",
}
