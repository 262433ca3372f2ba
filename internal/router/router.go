package router

import (
	"memeboard/internal/handlers"
	"memeboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部 Handler
type Handlers struct {
	Auth  *handlers.AuthHandler
	Post  *handlers.PostHandler
	Vote  *handlers.VoteHandler
	Image *handlers.ImageHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.GET("/posts", h.Post.List)                      // 帖子列表 (游标分页)
	api.GET("/posts/:id", h.Post.Get)                   // 帖子详情
	api.GET("/me", h.Auth.Me)                           // 当前用户
	api.POST("/register", h.Auth.Register)              // 注册
	api.POST("/login", h.Auth.Login)                    // 登录
	api.POST("/logout", h.Auth.Logout)                  // 退出登录
	api.POST("/forgot-password", h.Auth.ForgotPassword) // 发送重置密码邮件
	api.POST("/change-password", h.Auth.ChangePassword) // 通过 token 修改密码

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/vote", h.Vote.Vote)          // 投票
		authorized.POST("/vote/cancel", h.Vote.Cancel) // 取消投票
		authorized.POST("/posts", h.Post.Create)       // 发帖
		authorized.PUT("/posts/:id", h.Post.Update)    // 编辑帖子
		authorized.DELETE("/posts/:id", h.Post.Delete) // 删除帖子
	}

	// 图片路由 (Image Routes)
	rest := r.Group("/rest")
	rest.Use(middleware.AuthRequired())
	{
		rest.POST("/upload-image", h.Image.Upload) // 上传图片
		rest.POST("/delete-image", h.Image.Delete) // 删除图片
	}
}
