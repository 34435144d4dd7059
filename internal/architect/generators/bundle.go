package generators

import (
	"context"

	"golang.org/x/sync/errgroup"

	"arquitecto/internal/shared/model"
	"arquitecto/pkg/logging"
)

// maxParallelGenerators 单次请求内并行生成器上限
const maxParallelGenerators = 6

// Bundle 一套提案产物生成器
//
// 基础包固定为五个产物：diagram、cloudformation、documentation、
// pricing、activities。快速服务类项目额外附带计算器指南。
type Bundle struct {
	client *RemoteClient
	logger *logging.Logger
}

// NewBundle 构造生成器包，client 为 nil 或未配置时所有产物走本地路径
func NewBundle(client *RemoteClient, logger *logging.Logger) *Bundle {
	if logger == nil {
		logger = logging.Default("generators")
	}
	return &Bundle{client: client, logger: logger}
}

// ForDraft 按项目草稿返回有序的生成器列表
func (b *Bundle) ForDraft(d model.ProjectDraft) []Generator {
	gens := []Generator{
		b.remote(model.ArtifactDiagram, "diagram", "generate", "diagrama-arquitectura.svg", "image/svg+xml", generateDiagram),
		b.remote(model.ArtifactCloudFormation, "cloudformation", "generate", "cloudformation-template.yaml", "text/yaml", generateCloudFormation),
		b.remote(model.ArtifactDocumentation, "documentation", "generate", "documentacion-tecnica.txt", "text/plain", generateDocumentation),
		b.remote(model.ArtifactPricing, "pricing", "calculate", "estimacion-costos.csv", "text/csv", generatePricing),
		NewActivitiesGenerator(),
	}
	if d.Type == model.TypeQuickService {
		gens = append(gens, NewCalculatorGuideGenerator())
	}
	return gens
}

func (b *Bundle) remote(name, service, verb, fileName, media string, fallback localFunc) Generator {
	return &remoteGenerator{
		name:     name,
		service:  service,
		verb:     verb,
		fileName: fileName,
		media:    media,
		client:   b.client,
		fallback: fallback,
		logger:   b.logger,
	}
}

// RunAll 并行执行所有生成器，结果按生成器顺序返回。
// 单个生成器失败不影响其余生成器，失败记录在 Result.Err 里。
func RunAll(ctx context.Context, gens []Generator, in Input) []Result {
	results := make([]Result, len(gens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelGenerators)

	for i, gen := range gens {
		g.Go(func() error {
			art, err := gen.Generate(gctx, in)
			results[i] = Result{LogicalName: gen.LogicalName(), Artifact: art, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
