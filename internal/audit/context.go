package audit

import "context"

type actorKey struct{}

// Actor 当前请求的操作人与来源地址
// 未认证（如登录前）或系统任务时 UserID 为空
type Actor struct {
	UserID string
	IP     string
}

// WithActor 将操作人写入 context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// FromContext 读取操作人，不存在时返回零值
func FromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
