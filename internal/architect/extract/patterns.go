// Package extract 参数提取器的模式表
//
// patterns.go 集中维护全部关键词与正则表：名称模式、类型关键词、
// 架构风格关键词、非功能需求关键词、区域映射与资源细节模式。
// 所有表都是有序切片，保证同一输入得到同一输出。
package extract

import (
	"regexp"

	"arquitecto/internal/shared/model"
)

// namePatterns 项目名称正则，按序尝试，第一个命中即生效
//
// 语料已小写化；捕获组允许多词名称，后续再修剪尾部连接词。
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`proyecto\s+(?:se\s+)?llamad?o?\s+([a-z0-9][a-z0-9 _.-]{2,40})`),
	regexp.MustCompile(`project\s+(?:is\s+|called\s+|named\s+)([a-z0-9][a-z0-9 _.-]{2,40})`),
	regexp.MustCompile(`(?:el\s+)?sistema\s+([a-z0-9][a-z0-9 _.-]{2,40})`),
	regexp.MustCompile(`(?:la\s+)?aplicacion\s+([a-z0-9][a-z0-9 _.-]{2,40})`),
	regexp.MustCompile(`application\s+([a-z0-9][a-z0-9 _.-]{2,40})`),
}

// nameTrailingStop 名称尾部被截掉的连接词
var nameTrailingStop = map[string]bool{
	"que": true, "con": true, "para": true, "usando": true, "en": true,
	"de": true, "y": true, "using": true, "with": true, "for": true,
	"on": true, "and": true,
}

// minNameLen 有效名称的最小长度
const minNameLen = 4

// integralKeywords 整体方案类型关键词
var integralKeywords = []string{
	"solucion integral", "integral", "migracion", "migration",
	"plataforma", "end to end", "aplicacion nueva", "nueva aplicacion",
	"arquitectura completa", "proyecto completo",
}

// quickServiceKeywords 快速服务类型关键词
var quickServiceKeywords = []string{
	"servicio rapido", "quick service", "solo una instancia", "solo un bucket",
	"una vpn", "algo puntual", "servicio puntual", "solo necesito",
}

// styleKeywords 架构风格关键词，按优先级排列
var styleKeywords = []struct {
	style    model.ArchitectureStyle
	keywords []string
}{
	{model.StyleServerless, []string{"serverless", "sin servidor", "lambda"}},
	{model.StyleMicroservices, []string{"microservicio", "microservice"}},
	{model.StyleCDN, []string{"cdn", "contenido estatico", "sitio estatico", "cloudfront"}},
	{model.StyleData, []string{"analitica", "analytics", "data lake", "big data", "data warehouse", "almacen de datos", "etl"}},
}

// requirementRules 非功能需求检测规则，按序检测，命中即追加规范文案
var requirementRules = []struct {
	keywords  []string
	canonical string
}{
	{[]string{"alta disponibilidad", "high availability", "multi-az", "multi az", "tolerancia a fallos"}, "Alta disponibilidad multi-AZ"},
	{[]string{"autoescal", "autoscal", "escalab", "auto scaling", "scaling"}, "Auto Scaling configurado"},
	{[]string{"seguridad", "security", "waf", "cifrado", "encryption", "encriptacion"}, "Seguridad avanzada con cifrado"},
	{[]string{"rendimiento", "performance", "baja latencia", "low latency"}, "Optimizacion de rendimiento"},
	{[]string{"respaldo", "backup", "copia de seguridad", "recuperacion"}, "Respaldos automaticos"},
}

// DefaultRegion 未检出区域时的默认值
const DefaultRegion = "us-east-1"

// regionRules 城市/国家/代码到区域码的映射，按序检测
var regionRules = []struct {
	keywords []string
	region   string
}{
	{[]string{"us-east-1", "virginia"}, "us-east-1"},
	{[]string{"us-east-2", "ohio"}, "us-east-2"},
	{[]string{"us-west-1", "california"}, "us-west-1"},
	{[]string{"us-west-2", "oregon"}, "us-west-2"},
	{[]string{"sa-east-1", "sao paulo", "brasil", "brazil"}, "sa-east-1"},
	{[]string{"eu-west-1", "irlanda", "ireland", "dublin"}, "eu-west-1"},
	{[]string{"eu-west-2", "londres", "london"}, "eu-west-2"},
	{[]string{"eu-west-3", "paris"}, "eu-west-3"},
	{[]string{"eu-central-1", "frankfurt", "alemania", "germany"}, "eu-central-1"},
	{[]string{"eu-south-2", "madrid", "espana", "spain"}, "eu-south-2"},
	{[]string{"ap-northeast-1", "tokio", "tokyo", "japon", "japan"}, "ap-northeast-1"},
	{[]string{"ap-southeast-1", "singapur", "singapore"}, "ap-southeast-1"},
	{[]string{"ap-southeast-2", "sidney", "sydney", "australia"}, "ap-southeast-2"},
	{[]string{"mexico", "ciudad de mexico", "cdmx"}, "us-east-1"},
	{[]string{"chile", "santiago", "argentina", "buenos aires", "colombia", "bogota", "peru", "lima"}, "sa-east-1"},
}

// 资源细节模式
var (
	instanceTypePattern = regexp.MustCompile(`\b([tmcr][0-9][a-z]?\.(?:nano|micro|small|medium|large|xlarge|[0-9]+xlarge))\b`)
	storagePattern      = regexp.MustCompile(`(\d+)\s*(gb|gib|tb)\b`)
	scalePattern        = regexp.MustCompile(`([\d][\d,.]*)\s*(?:usuarios|users|clientes)`)
	budgetPattern       = regexp.MustCompile(`(?:usd|\$)\s*([\d][\d,.]*)|([\d][\d,.]*)\s*(?:usd|dolares)`)
	timelinePattern     = regexp.MustCompile(`(\d+)\s*(semanas?|meses|mes|dias?|weeks?|months?|days?)`)
)

// osKeywords 操作系统关键词，按序检测
var osKeywords = []struct {
	keywords []string
	os       string
}{
	{[]string{"windows"}, "Windows Server"},
	{[]string{"ubuntu"}, "Ubuntu"},
	{[]string{"red hat", "redhat", "rhel"}, "Red Hat Enterprise Linux"},
	{[]string{"amazon linux", "linux"}, "Amazon Linux 2023"},
}
