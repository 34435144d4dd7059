package extract

import (
	"reflect"
	"testing"

	"arquitecto/internal/shared/model"
)

func userMsgs(contents ...string) []model.Message {
	msgs := make([]model.Message, 0, len(contents))
	for _, c := range contents {
		msgs = append(msgs, model.Message{Role: model.RoleUser, Content: c})
	}
	return msgs
}

// TestExtractDeterminism 同一输入多次提取结果一致
func TestExtractDeterminism(t *testing.T) {
	msgs := userMsgs(
		"quiero un proyecto llamado tienda online",
		"solucion integral con ec2 t3.large y 500gb",
		"alta disponibilidad y respaldos en frankfurt",
	)

	first := Extract(msgs)
	for i := 0; i < 20; i++ {
		got := Extract(msgs)
		if !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d differs:\nfirst: %+v\ngot:   %+v", i, first, got)
		}
	}
}

// TestExtractName 测试名称提取
func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		msgs []model.Message
		want string
	}{
		{"llamado 模式", userMsgs("quiero un proyecto llamado alpha"), "alpha"},
		{"se llama 模式", userMsgs("el proyecto se llama comercio digital"), "comercio digital"},
		{"连接词截断", userMsgs("proyecto llamado atlas para mi empresa"), "atlas"},
		{"sistema 模式", userMsgs("necesito el sistema inventario central"), "inventario central"},
		{"回落到短消息", userMsgs("Alpha", "necesito ec2"), "Alpha"},
		{"短名称拒绝", userMsgs("quiero un proyecto llamado ab con varios componentes distribuidos"), model.DefaultProjectName},
		{"无名称", userMsgs("necesito una arquitectura en la nube con varios servicios administrados"), model.DefaultProjectName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.msgs).Name; got != tt.want {
				t.Errorf("Name = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestExtractType 测试项目类型判断
func TestExtractType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.ProjectType
	}{
		{"integral", "quiero una solucion integral", model.TypeIntegral},
		{"migracion", "es una migracion de mi datacenter", model.TypeIntegral},
		{"servicio rapido", "solo un servicio rapido", model.TypeQuickService},
		{"vpn puntual", "necesito una vpn", model.TypeQuickService},
		{"desconocido", "hola buenas tardes", model.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(userMsgs(tt.text)).Type; got != tt.want {
				t.Errorf("Type = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestExtractServices 测试服务检测与基线补齐
func TestExtractServices(t *testing.T) {
	t.Run("EC2 伴随服务", func(t *testing.T) {
		d := Extract(userMsgs("necesito EC2 t3.medium con 100gb"))
		want := []string{"EC2", "VPC", "S3", "CloudWatch"}
		if !reflect.DeepEqual(d.Services, want) {
			t.Errorf("Services = %v, want %v", d.Services, want)
		}
	})

	t.Run("同义词检测", func(t *testing.T) {
		d := Extract(userMsgs("una base de datos postgres con un bucket"))
		if !d.HasService("RDS") || !d.HasService("S3") {
			t.Errorf("Services = %v", d.Services)
		}
	})

	t.Run("serverless 默认集合", func(t *testing.T) {
		d := Extract(userMsgs("quiero algo serverless"))
		// "serverless" 同时是 Lambda 的同义词，Lambda 必然在集合中
		if !d.HasService("Lambda") {
			t.Errorf("Services = %v", d.Services)
		}
	})

	t.Run("空集合注入标准默认", func(t *testing.T) {
		d := Extract(userMsgs("hola necesito ayuda"))
		want := []string{"EC2", "VPC", "S3", "CloudWatch"}
		if !reflect.DeepEqual(d.Services, want) {
			t.Errorf("Services = %v, want %v", d.Services, want)
		}
	})

	t.Run("data 默认集合", func(t *testing.T) {
		d := Extract(userMsgs("plataforma de analitica de clientes"))
		want := []string{"S3", "Glue", "Athena", "Redshift"}
		if !reflect.DeepEqual(d.Services, want) {
			t.Errorf("Services = %v, want %v", d.Services, want)
		}
	})
}

// TestExtractStyle 测试架构风格优先级
func TestExtractStyle(t *testing.T) {
	tests := []struct {
		text string
		want model.ArchitectureStyle
	}{
		{"algo serverless con microservicios", model.StyleServerless},
		{"microservicios en contenedores", model.StyleMicroservices},
		{"un cdn para contenido estatico", model.StyleCDN},
		{"un data lake corporativo", model.StyleData},
		{"una app normal", model.StyleStandard},
	}

	for _, tt := range tests {
		if got := Extract(userMsgs(tt.text)).ArchitectureStyle; got != tt.want {
			t.Errorf("Extract(%q).ArchitectureStyle = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// TestExtractRequirements 测试非功能需求规范化
func TestExtractRequirements(t *testing.T) {
	d := Extract(userMsgs("quiero alta disponibilidad, seguridad con cifrado y respaldos"))
	want := []string{
		"Alta disponibilidad multi-AZ",
		"Seguridad avanzada con cifrado",
		"Respaldos automaticos",
	}
	if !reflect.DeepEqual(d.Requirements, want) {
		t.Errorf("Requirements = %v, want %v", d.Requirements, want)
	}
}

// TestExtractRegion 测试区域映射
func TestExtractRegion(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"desplegar en us-east-1", "us-east-1"},
		{"mis usuarios estan en frankfurt", "eu-central-1"},
		{"clientes en brasil", "sa-east-1"},
		{"oficina en tokio", "ap-northeast-1"},
		{"empresa en chile", "sa-east-1"},
		{"sin region mencionada", DefaultRegion},
	}

	for _, tt := range tests {
		if got := Extract(userMsgs(tt.text)).Region; got != tt.want {
			t.Errorf("Extract(%q).Region = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// TestExtractResourceDetails 测试实例/系统/存储细节
func TestExtractResourceDetails(t *testing.T) {
	d := Extract(userMsgs("una instancia t3.medium con windows y 2 tb de disco"))
	if d.InstanceType != "t3.medium" {
		t.Errorf("InstanceType = %q", d.InstanceType)
	}
	if d.OS != "Windows Server" {
		t.Errorf("OS = %q", d.OS)
	}
	if d.StorageGB != 2000 {
		t.Errorf("StorageGB = %d", d.StorageGB)
	}
}

// TestExtractHints 测试规模/预算/时间线提示
func TestExtractHints(t *testing.T) {
	d := Extract(userMsgs("esperamos 5000 usuarios, presupuesto de $2000 y plazo de 3 meses"))
	if d.ScaleHint != "5000 usuarios" {
		t.Errorf("ScaleHint = %q", d.ScaleHint)
	}
	if d.BudgetHint != "2000 USD" {
		t.Errorf("BudgetHint = %q", d.BudgetHint)
	}
	if d.TimelineHint != "3 meses" {
		t.Errorf("TimelineHint = %q", d.TimelineHint)
	}
}

// TestExtractScenarioComplete 完整访谈的端到端提取
func TestExtractScenarioComplete(t *testing.T) {
	msgs := []model.Message{
		{Role: model.RoleUser, Content: "Alpha"},
		{Role: model.RoleAssistant, Content: "Es una solucion integral o un servicio rapido?"},
		{Role: model.RoleUser, Content: "solucion integral"},
		{Role: model.RoleUser, Content: "necesito EC2 t3.medium con 100gb"},
		{Role: model.RoleUser, Content: "alta disponibilidad"},
		{Role: model.RoleUser, Content: "us-east-1"},
	}

	d := Extract(msgs)
	if d.Name != "Alpha" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Type != model.TypeIntegral {
		t.Errorf("Type = %q", d.Type)
	}
	for _, svc := range []string{"EC2", "VPC", "S3", "CloudWatch"} {
		if !d.HasService(svc) {
			t.Errorf("missing service %s in %v", svc, d.Services)
		}
	}
	if d.Region != "us-east-1" {
		t.Errorf("Region = %q", d.Region)
	}
	found := false
	for _, r := range d.Requirements {
		if r == "Alta disponibilidad multi-AZ" {
			found = true
		}
	}
	if !found {
		t.Errorf("Requirements = %v", d.Requirements)
	}
}
