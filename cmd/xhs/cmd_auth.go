package main

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/pkg/remote"
	"XhsStudio/internal/pkg/util"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jinzhu/copier"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	regForm       dto.RegisterDTO
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "登录后端并保存凭据",
	Long: `登录后端并把凭据保存到用户配置目录。

密码可以通过 --password 或环境变量 XHS_PASSWORD 提供。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginPassword == "" {
			loginPassword = os.Getenv("XHS_PASSWORD")
		}
		form := dto.CredentialDTO{Username: loginUsername, Password: loginPassword}
		if err := util.ValidateDTO(&form); err != nil {
			return err
		}
		ctx := commandContext(cmd)
		res, err := anonymousClient().Login(ctx, form.Username, form.Password)
		if err != nil {
			return err
		}
		saved := &savedLogin{
			BaseURL:    cfg.Backend.BaseURL,
			Credential: res.Credential,
			SavedAt:    time.Now(),
		}
		if res.User != nil {
			saved.User = *res.User
		} else if st, err := remote.NewClient(httpClient, cfg.Backend.Routes, res.Credential).Status(ctx); err == nil && st.User != nil {
			saved.User = *st.User
		} else {
			saved.User.Username = form.Username
		}
		if err := saveLogin(saved); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "登录成功：%s", saved.User.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "退出登录并删除本地凭据",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := loggedInClient()
		if err != nil && !errors.Is(err, errNotLoggedIn) {
			return err
		}
		if client != nil {
			if err := client.Logout(commandContext(cmd)); err != nil {
				printMeta(cmd.ErrOrStderr(), "后端登出失败：%v", err)
			}
		}
		if err := clearLogin(); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "已退出登录")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看登录状态",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		client, saved, err := loggedInClient()
		if errors.Is(err, errNotLoggedIn) {
			fmt.Fprintln(out, "未登录")
			return nil
		}
		if err != nil {
			return err
		}
		st, err := client.Status(commandContext(cmd))
		if err != nil {
			if errors.Is(err, remote.ErrUnauthorized) {
				_ = clearLogin()
				fmt.Fprintln(out, "登录已失效")
				return nil
			}
			return err
		}
		if !st.LoggedIn {
			fmt.Fprintln(out, "登录已失效")
			return nil
		}
		user := saved.User
		if st.User != nil {
			user = *st.User
		}
		printOK(out, "已登录：%s", user.DisplayName())
		printMeta(out, "后端 %s · 保存于 %s", saved.BaseURL, saved.SavedAt.Format(time.DateTime))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "注册新用户",
	RunE: func(cmd *cobra.Command, args []string) error {
		if regForm.Password == "" {
			regForm.Password = os.Getenv("XHS_PASSWORD")
		}
		if regForm.ConfirmPassword == "" {
			regForm.ConfirmPassword = regForm.Password
		}
		if err := util.ValidateDTO(&regForm); err != nil {
			return err
		}
		var req remote.RegisterRequest
		if err := copier.Copy(&req, &regForm); err != nil {
			return err
		}
		if err := anonymousClient().Register(commandContext(cmd), req); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "注册成功，请执行 xhs login -u %s", regForm.Username)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "用户名")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "密码")
	_ = loginCmd.MarkFlagRequired("username")

	registerCmd.Flags().StringVarP(&regForm.Username, "username", "u", "", "用户名（3-20 个字符）")
	registerCmd.Flags().StringVarP(&regForm.Password, "password", "p", "", "密码（至少 6 位）")
	registerCmd.Flags().StringVar(&regForm.ConfirmPassword, "confirm", "", "确认密码，默认与密码相同")
	registerCmd.Flags().StringVar(&regForm.Email, "email", "", "邮箱")
	registerCmd.Flags().StringVar(&regForm.Nickname, "nickname", "", "昵称")
	_ = registerCmd.MarkFlagRequired("username")
}
